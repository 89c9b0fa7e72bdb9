package repository

import (
	"context"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PedidoRepository is the data access contract for orders and their lines.
type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error)

	// FindActivoPorMesa returns the most recent active (pendiente|despachado)
	// pedido for the mesa created since the given instant, or gorm.ErrRecordNotFound.
	FindActivoPorMesa(ctx context.Context, mesaID uuid.UUID, desde time.Time) (*model.Pedido, error)

	// Tx-scoped operations. FindByIDForUpdateTx locks the pedido row so two
	// concurrent appends against the same order cannot interleave.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	CreateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error
	UpdateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error
	UpdateTotalEstadoTx(tx *gorm.DB, id uuid.UUID, total interface{}, estado string) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Producto").
		Preload("Mesera").Preload("Usuario").Preload("Mesa").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var pedidos []model.Pedido

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.MeseraID != "" {
		q = q.Where("mesera_id = ?", filter.MeseraID)
	}
	if filter.UsuarioID != "" {
		q = q.Where("usuario_id = ?", filter.UsuarioID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_hora) = ?", filter.Fecha)
	}
	if filter.Sistema {
		q = q.Where("mesera_id IS NULL AND usuario_id IS NOT NULL")
	}

	err := q.Preload("Items").Preload("Items.Producto").
		Preload("Mesera").Preload("Usuario").Preload("Mesa").
		Order("fecha_hora DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) FindActivoPorMesa(ctx context.Context, mesaID uuid.UUID, desde time.Time) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Where("mesa_id = ? AND estado IN ? AND fecha_hora >= ?", mesaID, model.EstadosActivos, desde).
		Order("fecha_hora DESC").
		Preload("Mesa").Preload("Mesera").Preload("Usuario").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Items are loaded after the lock is held so no concurrent append can
	// slip new lines in between.
	if err := tx.Where("pedido_id = ?", id).Find(&p.Items).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) CreateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error {
	return tx.Create(l).Error
}

func (r *pedidoRepo) UpdateLineaTx(tx *gorm.DB, l *model.PedidoProducto) error {
	return tx.Model(&model.PedidoProducto{}).Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"cantidad":            l.Cantidad,
			"cantidad_despachada": l.CantidadDespachada,
		}).Error
}

func (r *pedidoRepo) UpdateTotalEstadoTx(tx *gorm.DB, id uuid.UUID, total interface{}, estado string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).
		Updates(map[string]interface{}{"total": total, "estado": estado}).Error
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	// Lines cascade with their pedido; the explicit delete keeps the cascade
	// working even on databases created before the FK constraint existed.
	if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoProducto{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Pedido{}, "id = ?", id).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

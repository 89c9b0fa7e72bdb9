package repository

import (
	"context"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"gorm.io/gorm"
)

// MovimientoRepository persists immutable stock-movement audit entries.
// There is deliberately no Update or Delete: corrections are new entries.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var movimientos []model.Movimiento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Movimiento{})
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&movimientos).Error
	return movimientos, total, err
}

package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActorTotalRow is one aggregation row of sales grouped by owning actor.
type ActorTotalRow struct {
	ActorID      string          `gorm:"column:actor_id"`
	ActorNombre  string          `gorm:"column:actor_nombre"`
	TotalVendido decimal.Decimal `gorm:"column:total_vendido"`
}

// VentaDiariaRow aggregates order totals per calendar day.
type VentaDiariaRow struct {
	Fecha        string          `gorm:"column:fecha"`
	TotalVendido decimal.Decimal `gorm:"column:total_vendido"`
	Pedidos      int64           `gorm:"column:pedidos"`
}

// ReporteRepository runs the read-only sales aggregations. Cancelled orders
// never count towards sales figures.
type ReporteRepository interface {
	TotalesPorMesera(ctx context.Context, fecha string) ([]ActorTotalRow, error)
	TotalesPorUsuario(ctx context.Context, fecha string) ([]ActorTotalRow, error)
	VentasDiarias(ctx context.Context, desde, hasta string) ([]VentaDiariaRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) TotalesPorMesera(ctx context.Context, fecha string) ([]ActorTotalRow, error) {
	var rows []ActorTotalRow
	q := r.db.WithContext(ctx).Table("meseras m").
		Select(`m.id::text AS actor_id, m.nombre AS actor_nombre,
			COALESCE(SUM(p.total), 0) AS total_vendido`)
	// The date filter lives in the JOIN condition so meseras without sales
	// that day still appear with a zero total.
	if fecha != "" {
		q = q.Joins(`LEFT JOIN pedidos p ON p.mesera_id = m.id AND p.estado <> 'cancelado' AND DATE(p.fecha_hora) = ?`, fecha)
	} else {
		q = q.Joins(`LEFT JOIN pedidos p ON p.mesera_id = m.id AND p.estado <> 'cancelado'`)
	}
	err := q.Group("m.id, m.nombre").Order("m.nombre ASC").Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) TotalesPorUsuario(ctx context.Context, fecha string) ([]ActorTotalRow, error) {
	var rows []ActorTotalRow
	q := r.db.WithContext(ctx).Table("usuarios u").
		Select(`u.id::text AS actor_id, u.username AS actor_nombre,
			COALESCE(SUM(p.total), 0) AS total_vendido`)
	if fecha != "" {
		q = q.Joins(`LEFT JOIN pedidos p ON p.usuario_id = u.id AND p.estado <> 'cancelado' AND DATE(p.fecha_hora) = ?`, fecha)
	} else {
		q = q.Joins(`LEFT JOIN pedidos p ON p.usuario_id = u.id AND p.estado <> 'cancelado'`)
	}
	err := q.Where("u.activo = true").Group("u.id, u.username").Order("u.username ASC").Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) VentasDiarias(ctx context.Context, desde, hasta string) ([]VentaDiariaRow, error) {
	var rows []VentaDiariaRow
	q := r.db.WithContext(ctx).Table("pedidos").
		Select(`DATE(fecha_hora)::text AS fecha,
			COALESCE(SUM(total), 0) AS total_vendido,
			COUNT(*) AS pedidos`).
		Where("estado <> 'cancelado'")
	if desde != "" {
		q = q.Where("DATE(fecha_hora) >= ?", desde)
	}
	if hasta != "" {
		q = q.Where("DATE(fecha_hora) <= ?", hasta)
	}
	err := q.Group("DATE(fecha_hora)").Order("fecha ASC").Scan(&rows).Error
	return rows, err
}

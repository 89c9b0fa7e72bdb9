package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable inventory item behind the bar.
// Stock is the single source of truth for on-hand quantity. It is only
// mutated under a row lock (see service.StockLedger) — never read-then-write
// without holding the lock across both steps.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"index;not null"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Stock       int             `gorm:"not null;default:0"` // invariant: >= 0
	StockMinimo int             `gorm:"not null;default:0"`
	StockMaximo int             `gorm:"not null;default:0"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unidad      *string
	Proveedor   *string
	Ubicacion   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Producto) TableName() string { return "productos" }

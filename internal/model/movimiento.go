package model

import (
	"time"

	"github.com/google/uuid"
)

// Movimiento tipos.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// MotivosMovimiento are the accepted reason codes for a manual adjustment.
var MotivosMovimiento = []string{"Compra", "Consumo", "Devolución", "Ajuste", "Venta"}

// Movimiento is an immutable audit record of a manual stock adjustment
// (restock, correction, return) made outside the order flow. Rows are never
// updated or deleted; corrections create inverse entries.
type Movimiento struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo       string    `gorm:"type:varchar(10);not null"` // "entrada" | "salida"
	Cantidad   int       `gorm:"not null"`                  // always positive; Tipo carries direction
	Motivo     string    `gorm:"type:varchar(20);not null"`
	Usuario    string    `gorm:"not null"` // acting operator, threaded explicitly by callers
	CreatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Movimiento) TableName() string { return "movimientos" }

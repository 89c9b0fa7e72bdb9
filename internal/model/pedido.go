package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido estados.
//
//	pendiente ──► despachado ──► finalizada (terminal)
//	    │              │
//	    └──────┬───────┘
//	           ▼
//	       cancelado (terminal)
//
// despachado returns to pendiente when new lines are appended.
const (
	PedidoPendiente  = "pendiente"
	PedidoDespachado = "despachado"
	PedidoFinalizada = "finalizada"
	PedidoCancelado  = "cancelado"
)

// EstadosActivos are the states in which a pedido still occupies its mesa.
var EstadosActivos = []string{PedidoPendiente, PedidoDespachado}

// Pedido is a customer's tab at a table. The owning actor is either a
// mesera or a system usuario; exactly one of the two references is set.
// Total is derived and persisted: Σ precio_unitario · cantidad over Items,
// using prices captured at order time — it is never re-summed from current
// product prices.
type Pedido struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeseraID  *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
	MesaID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	FechaHora time.Time  `gorm:"not null;index"` // immutable once set
	Estado    string     `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Mesera  *Mesera  `gorm:"foreignKey:MeseraID"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
	Mesa    *Mesa    `gorm:"foreignKey:MesaID"`
	Items   []PedidoProducto `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// EsActivo reports whether the pedido still occupies its mesa.
func (p *Pedido) EsActivo() bool {
	return p.Estado == PedidoPendiente || p.Estado == PedidoDespachado
}

// EsTerminal reports whether no further transition is defined.
func (p *Pedido) EsTerminal() bool {
	return p.Estado == PedidoFinalizada || p.Estado == PedidoCancelado
}

// PedidoProducto is one product line within a pedido, tracking ordered vs.
// dispatched quantity. PrecioUnitario is captured from the product's price at
// the moment the line is created, decoupling historical totals from later
// price changes. Lines cascade with their pedido and are never deleted
// independently.
type PedidoProducto struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad           int             `gorm:"not null"`
	PrecioUnitario     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CantidadDespachada int             `gorm:"not null;default:0"` // 0 <= CantidadDespachada <= Cantidad
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PedidoProducto) TableName() string { return "pedido_productos" }

// PendienteDespacho is the quantity ordered but not yet poured.
func (l *PedidoProducto) PendienteDespacho() int {
	return l.Cantidad - l.CantidadDespachada
}

// Subtotal uses the captured unit price.
func (l *PedidoProducto) Subtotal() decimal.Decimal {
	return l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaPedidoRequest is one requested product line.
type LineaPedidoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
}

// CrearPedidoRequest opens a tab for a mesa. Exactly one of MeseraID or
// UsuarioID identifies the owning actor. ForceAppend routes the request to
// the running tab for the mesa when one exists instead of failing with a
// duplicate-order conflict.
type CrearPedidoRequest struct {
	MesaID      string               `json:"mesa"         validate:"required,uuid"`
	MeseraID    *string              `json:"mesera"       validate:"omitempty,uuid"`
	UsuarioID   *string              `json:"usuario"      validate:"omitempty,uuid"`
	Productos   []LineaPedidoRequest `json:"productos"    validate:"required,min=1,dive"`
	ForceAppend bool                 `json:"force_append"`
}

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente despachado finalizada cancelado"`
}

type DespacharLineaRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

// PedidoFilter selects orders for listing and for history deletion.
// Sistema=true keeps only orders placed by system users (no mesera).
type PedidoFilter struct {
	MeseraID  string `form:"mesera"`
	UsuarioID string `form:"usuario"`
	Estado    string `form:"estado"`
	Fecha     string `form:"fecha"` // YYYY-MM-DD
	Sistema   bool   `form:"sistema"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaPedidoResponse struct {
	ID                 string          `json:"id"`
	ProductoID         string          `json:"producto_id"`
	ProductoNombre     string          `json:"producto_nombre"`
	Cantidad           int             `json:"cantidad"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	CantidadDespachada int             `json:"cantidad_despachada"`
	PendienteDespacho  int             `json:"pendiente_despacho"`
	Subtotal           decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID           string                `json:"id"`
	MeseraID     *string               `json:"mesera"`
	MeseraNombre string                `json:"mesera_nombre,omitempty"`
	UsuarioID    *string               `json:"usuario"`
	MesaID       string                `json:"mesa"`
	MesaNumero   string                `json:"mesa_numero,omitempty"`
	FechaHora    string                `json:"fecha_hora"`
	Estado       string                `json:"estado"`
	Total        decimal.Decimal       `json:"total"`
	Productos    []LineaPedidoResponse `json:"productos_detalle"`
}

// DespachoResponse reports the outcome of dispatching one line.
type DespachoResponse struct {
	Detail       string `json:"detail"`
	PedidoEstado string `json:"pedido_estado"`
}

type BorrarHistorialResponse struct {
	Detail     string `json:"detail"`
	Eliminados int    `json:"eliminados"`
}

// OcupacionMesaResponse reports who currently occupies a mesa, derived from
// the most recent active pedido within the recency window. All fields are
// null when the mesa is vacant. OcupadaPorID is namespaced ("mesera-<id>" /
// "usuario-<id>") so ids from the two actor collections never collide.
type OcupacionMesaResponse struct {
	MesaID       string  `json:"mesa_id"`
	Numero       string  `json:"numero"`
	OcupadaPor   *string `json:"ocupada_por"`
	OcupadaPorID *string `json:"ocupada_por_id"`
	Tipo         *string `json:"tipo"` // "mesera" | "usuario"
	PedidoID     *string `json:"pedido_id"`
}

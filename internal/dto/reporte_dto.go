package dto

import "github.com/shopspring/decimal"

// TotalPorActorResponse is one row of the per-actor sales report: every
// mesera plus every system user that sells, with zero totals included.
// Tipo distinguishes the two actor namespaces.
type TotalPorActorResponse struct {
	ActorID      string          `json:"mesera_id"`
	ActorNombre  string          `json:"mesera_nombre"`
	Tipo         string          `json:"tipo"` // "mesera" | "usuario"
	TotalVendido decimal.Decimal `json:"total_vendido"`
}

// VentaDiariaResponse aggregates order totals per calendar day
// (canceled orders excluded).
type VentaDiariaResponse struct {
	Fecha        string          `json:"fecha"` // YYYY-MM-DD
	TotalVendido decimal.Decimal `json:"total_vendido"`
	Pedidos      int64           `json:"pedidos"`
}

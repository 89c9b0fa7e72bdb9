package service

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the operation error taxonomy. Handlers map these
// to HTTP status codes; services return them wrapped with %w so callers can
// match with errors.Is.
var (
	// ErrStockInsuficiente: the mutation would drive a product's stock
	// below zero. Raised inside the transaction, before commit.
	ErrStockInsuficiente = errors.New("stock insuficiente")

	// ErrPayloadInvalido: malformed quantity, missing field, or invalid
	// enum value. Raised before any transaction opens.
	ErrPayloadInvalido = errors.New("payload inválido")

	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrPedidoNoEncontrado   = errors.New("pedido no encontrado")
	ErrLineaNoEncontrada    = errors.New("producto no encontrado en este pedido")
	ErrMesaNoEncontrada     = errors.New("mesa no encontrada")
	ErrMeseraNoEncontrada   = errors.New("mesera no encontrada")
	ErrUsuarioNoEncontrado  = errors.New("usuario no encontrado")

	// ErrSinPedidoActivo signals that a mesa has no running tab: an append
	// falls back to creating a new pedido instead of failing the request.
	ErrSinPedidoActivo = errors.New("no hay pedido activo para la mesa")

	// ErrNadaQueEliminar: the history-deletion filter matched no orders.
	ErrNadaQueEliminar = errors.New("no hay pedidos que coincidan con los filtros")

	// ErrEstadoTerminal: no transition is defined out of finalizada/cancelado.
	ErrEstadoTerminal = errors.New("el pedido está en un estado terminal")

	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
)

// PedidoActivoError rejects a duplicate order for a mesa that already has a
// running tab today, pointing the caller at the blocking pedido.
type PedidoActivoError struct {
	PedidoID   string
	MesaNumero string
}

func (e *PedidoActivoError) Error() string {
	return fmt.Sprintf("la mesa %s ya tiene un pedido activo (#%s); agrega productos al pedido existente o espera a que se finalice", e.MesaNumero, e.PedidoID)
}

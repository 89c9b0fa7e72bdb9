package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoService drives the order lifecycle: opening tabs, appending lines,
// dispatching, cancelling and purging history. Stock is debited at dispatch
// time, never at order creation, so an open tab reserves nothing.
type PedidoService interface {
	CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	AgregarAPedidoActivo(ctx context.Context, mesaID uuid.UUID, lineas []dto.LineaPedidoRequest) (*dto.PedidoResponse, error)
	DespacharLinea(ctx context.Context, pedidoID, lineaID uuid.UUID) (*dto.DespachoResponse, error)
	ActualizarEstado(ctx context.Context, pedidoID uuid.UUID, estado string) (*dto.PedidoResponse, error)
	BorrarHistorial(ctx context.Context, filter dto.PedidoFilter) (*dto.BorrarHistorialResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	pedidos    repository.PedidoRepository
	productos  repository.ProductoRepository
	mesas      repository.MesaRepository
	ledger     StockLedger
	dispatcher *worker.Dispatcher
	ventana    time.Duration // recency window for "active order on this mesa"
}

func NewPedidoService(
	pedidos repository.PedidoRepository,
	productos repository.ProductoRepository,
	mesas repository.MesaRepository,
	ledger StockLedger,
	dispatcher *worker.Dispatcher,
	ventana time.Duration,
) PedidoService {
	if ventana <= 0 {
		ventana = 24 * time.Hour
	}
	return &pedidoService{
		pedidos:    pedidos,
		productos:  productos,
		mesas:      mesas,
		ledger:     ledger,
		dispatcher: dispatcher,
		ventana:    ventana,
	}
}

// CrearPedido opens a tab for a mesa. If the mesa already has an active
// pedido inside the recency window the request conflicts — unless
// force_append is set, in which case the lines merge into the running tab.
func (s *pedidoService) CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if len(req.Productos) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene productos", ErrPayloadInvalido)
	}
	if (req.MeseraID == nil) == (req.UsuarioID == nil) {
		return nil, fmt.Errorf("%w: el pedido debe tener exactamente un responsable (mesera o usuario)", ErrPayloadInvalido)
	}

	mesaID, err := uuid.Parse(req.MesaID)
	if err != nil {
		return nil, fmt.Errorf("%w: mesa inválida", ErrPayloadInvalido)
	}
	mesa, err := s.mesas.FindByID(ctx, mesaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMesaNoEncontrada, req.MesaID)
	}

	desde := time.Now().Add(-s.ventana)
	if activo, err := s.pedidos.FindActivoPorMesa(ctx, mesaID, desde); err == nil {
		if !req.ForceAppend {
			return nil, &PedidoActivoError{PedidoID: activo.ID.String(), MesaNumero: mesa.Numero}
		}
		return s.agregarLineas(ctx, activo.ID, req.Productos)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pedido := model.Pedido{
		MesaID:    mesaID,
		FechaHora: time.Now(),
		Estado:    model.PedidoPendiente,
		Total:     decimal.Zero,
	}
	if req.MeseraID != nil {
		id, err := uuid.Parse(*req.MeseraID)
		if err != nil {
			return nil, fmt.Errorf("%w: mesera inválida", ErrPayloadInvalido)
		}
		pedido.MeseraID = &id
	}
	if req.UsuarioID != nil {
		id, err := uuid.Parse(*req.UsuarioID)
		if err != nil {
			return nil, fmt.Errorf("%w: usuario inválido", ErrPayloadInvalido)
		}
		pedido.UsuarioID = &id
	}

	// Unit prices are captured now so later price changes never alter this
	// pedido's total. Stock is not touched until dispatch.
	lineas := make([]model.PedidoProducto, 0, len(req.Productos))
	total := decimal.Zero
	for _, lr := range req.Productos {
		productoID, err := uuid.Parse(lr.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id inválido", ErrPayloadInvalido)
		}
		if lr.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: cantidad debe ser positiva", ErrPayloadInvalido)
		}
		producto, err := s.productos.FindByID(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, lr.ProductoID)
		}
		lineas = append(lineas, model.PedidoProducto{
			ProductoID:     productoID,
			Cantidad:       lr.Cantidad,
			PrecioUnitario: producto.Precio,
		})
		total = total.Add(producto.Precio.Mul(decimal.NewFromInt(int64(lr.Cantidad))))
	}
	pedido.Total = total
	pedido.Items = lineas

	if err := s.pedidos.Create(ctx, &pedido); err != nil {
		return nil, err
	}
	s.marcarMesa(ctx, mesaID, model.MesaOcupada)

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("mesa", mesa.Numero).
		Int("lineas", len(lineas)).
		Str("total", total.String()).
		Msg("pedido creado")

	return s.ObtenerPorID(ctx, pedido.ID)
}

// AgregarAPedidoActivo merges lines into the mesa's running tab. Returns
// ErrSinPedidoActivo when the mesa has no active pedido in the window, so
// the handler can fall back to creating a fresh one.
func (s *pedidoService) AgregarAPedidoActivo(ctx context.Context, mesaID uuid.UUID, lineas []dto.LineaPedidoRequest) (*dto.PedidoResponse, error) {
	if len(lineas) == 0 {
		return nil, fmt.Errorf("%w: no hay productos para agregar", ErrPayloadInvalido)
	}
	desde := time.Now().Add(-s.ventana)
	activo, err := s.pedidos.FindActivoPorMesa(ctx, mesaID, desde)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinPedidoActivo
		}
		return nil, err
	}
	return s.agregarLineas(ctx, activo.ID, lineas)
}

// agregarLineas appends lines to an existing pedido inside one transaction:
//
//  1. lock the pedido row, so concurrent appends serialize
//  2. when the pedido was despachado, settle the old lines' counters as
//     fully dispatched (their units were already debited at dispatch, so
//     this touches no stock)
//  3. merge the new lines: an existing line for the same product grows, a
//     new product gets a fresh line at the current price
//  4. add the new lines' worth to the total and return the pedido to
//     pendiente, since it again has undispatched items
//
// Appending never moves stock; the new units are debited when their line is
// dispatched, like any other.
func (s *pedidoService) agregarLineas(ctx context.Context, pedidoID uuid.UUID, lineas []dto.LineaPedidoRequest) (*dto.PedidoResponse, error) {
	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		pedido, err := s.pedidos.FindByIDForUpdateTx(tx, pedidoID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrPedidoNoEncontrado, pedidoID)
		}
		if pedido.EsTerminal() {
			return fmt.Errorf("%w: %s", ErrEstadoTerminal, pedido.Estado)
		}

		if pedido.Estado == model.PedidoDespachado {
			if err := s.marcarDespachadasTx(tx, pedido); err != nil {
				return err
			}
		}

		porProducto := make(map[uuid.UUID]*model.PedidoProducto, len(pedido.Items))
		for i := range pedido.Items {
			porProducto[pedido.Items[i].ProductoID] = &pedido.Items[i]
		}

		incremento := decimal.Zero
		for _, lr := range lineas {
			productoID, err := uuid.Parse(lr.ProductoID)
			if err != nil {
				return fmt.Errorf("%w: producto_id inválido", ErrPayloadInvalido)
			}
			if lr.Cantidad <= 0 {
				return fmt.Errorf("%w: cantidad debe ser positiva", ErrPayloadInvalido)
			}
			producto, err := s.productos.FindByID(ctx, productoID)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrProductoNoEncontrado, lr.ProductoID)
			}

			if existente, ok := porProducto[productoID]; ok {
				existente.Cantidad += lr.Cantidad
				if err := s.pedidos.UpdateLineaTx(tx, existente); err != nil {
					return err
				}
			} else {
				nueva := model.PedidoProducto{
					PedidoID:       pedido.ID,
					ProductoID:     productoID,
					Cantidad:       lr.Cantidad,
					PrecioUnitario: producto.Precio,
				}
				if err := s.pedidos.CreateLineaTx(tx, &nueva); err != nil {
					return err
				}
				porProducto[productoID] = &nueva
			}
			// the merged quantity keeps the line's captured price; only the
			// newly added units are valued at the current price
			incremento = incremento.Add(producto.Precio.Mul(decimal.NewFromInt(int64(lr.Cantidad))))
		}

		nuevoTotal := pedido.Total.Add(incremento)
		return s.pedidos.UpdateTotalEstadoTx(tx, pedido.ID, nuevoTotal, model.PedidoPendiente)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("pedido_id", pedidoID.String()).Int("lineas", len(lineas)).Msg("productos agregados al pedido activo")
	return s.ObtenerPorID(ctx, pedidoID)
}

// DespacharLinea marks one line fully dispatched, debiting the pending
// quantity from stock. Dispatching an already-dispatched line is a no-op
// success, so retried requests cannot double-debit.
func (s *pedidoService) DespacharLinea(ctx context.Context, pedidoID, lineaID uuid.UUID) (*dto.DespachoResponse, error) {
	var detail string
	var estadoFinal string
	var bajoMinimo *model.Producto

	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		pedido, err := s.pedidos.FindByIDForUpdateTx(tx, pedidoID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrPedidoNoEncontrado, pedidoID)
		}
		if pedido.EsTerminal() {
			return fmt.Errorf("%w: %s", ErrEstadoTerminal, pedido.Estado)
		}
		estadoFinal = pedido.Estado

		var linea *model.PedidoProducto
		for i := range pedido.Items {
			if pedido.Items[i].ID == lineaID {
				linea = &pedido.Items[i]
				break
			}
		}
		if linea == nil {
			return fmt.Errorf("%w: %s", ErrLineaNoEncontrada, lineaID)
		}

		pendiente := linea.PendienteDespacho()
		if pendiente <= 0 {
			detail = "la línea ya estaba despachada"
			return nil
		}

		producto, err := s.ledger.Ajustar(tx, linea.ProductoID, -pendiente)
		if err != nil {
			return err
		}
		if producto.Stock <= producto.StockMinimo {
			bajoMinimo = producto
		}

		linea.CantidadDespachada = linea.Cantidad
		if err := s.pedidos.UpdateLineaTx(tx, linea); err != nil {
			return err
		}

		todoDespachado := true
		for i := range pedido.Items {
			if pedido.Items[i].PendienteDespacho() > 0 {
				todoDespachado = false
				break
			}
		}
		if todoDespachado && pedido.Estado == model.PedidoPendiente {
			if err := s.pedidos.UpdateEstadoTx(tx, pedido.ID, model.PedidoDespachado); err != nil {
				return err
			}
			estadoFinal = model.PedidoDespachado
		}
		detail = "línea despachada"
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if bajoMinimo != nil {
		s.alertarBajoMinimo(ctx, bajoMinimo)
	}
	return &dto.DespachoResponse{Detail: detail, PedidoEstado: estadoFinal}, nil
}

// ActualizarEstado applies one state-machine transition.
//
// Moving to despachado dispatches every pending line, debiting stock.
// Moving to cancelado credits back only what was actually dispatched and
// resets the dispatched counters, so a later history purge cannot credit
// the same units twice. Terminal states accept no transition.
func (s *pedidoService) ActualizarEstado(ctx context.Context, pedidoID uuid.UUID, estado string) (*dto.PedidoResponse, error) {
	switch estado {
	case model.PedidoPendiente, model.PedidoDespachado, model.PedidoFinalizada, model.PedidoCancelado:
	default:
		return nil, fmt.Errorf("%w: estado desconocido %q", ErrPayloadInvalido, estado)
	}

	var bajoMinimo []*model.Producto
	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		pedido, err := s.pedidos.FindByIDForUpdateTx(tx, pedidoID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrPedidoNoEncontrado, pedidoID)
		}
		if pedido.EsTerminal() {
			return fmt.Errorf("%w: %s", ErrEstadoTerminal, pedido.Estado)
		}
		if estado == pedido.Estado {
			return nil
		}

		switch estado {
		case model.PedidoPendiente:
			// pendiente is only re-entered by appending lines
			return fmt.Errorf("%w: transición %s → pendiente no permitida", ErrPayloadInvalido, pedido.Estado)
		case model.PedidoDespachado:
			if bajoMinimo, err = s.despacharPendientesTx(tx, pedido); err != nil {
				return err
			}
		case model.PedidoFinalizada:
			if pedido.Estado != model.PedidoDespachado {
				return fmt.Errorf("%w: solo un pedido despachado puede finalizarse", ErrPayloadInvalido)
			}
		case model.PedidoCancelado:
			if err := s.devolverDespachadoTx(tx, pedido); err != nil {
				return err
			}
		}
		return s.pedidos.UpdateEstadoTx(tx, pedido.ID, estado)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp, err := s.ObtenerPorID(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("pedido_id", pedidoID.String()).Str("estado", estado).Msg("estado de pedido actualizado")

	for _, producto := range bajoMinimo {
		s.alertarBajoMinimo(ctx, producto)
	}
	if estado == model.PedidoFinalizada || estado == model.PedidoCancelado {
		s.liberarMesaSiLibre(ctx, resp.MesaID)
	}
	if estado == model.PedidoFinalizada {
		s.encolarTicket(ctx, resp)
	}
	return resp, nil
}

// BorrarHistorial deletes every pedido matching the filter. Dispatched
// quantities return to stock first, so purging history never loses units.
// Cancelled orders were already credited at cancel time and their counters
// reset, so they credit nothing here.
func (s *pedidoService) BorrarHistorial(ctx context.Context, filter dto.PedidoFilter) (*dto.BorrarHistorialResponse, error) {
	pedidos, err := s.pedidos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(pedidos) == 0 {
		return nil, ErrNadaQueEliminar
	}

	eliminados := 0
	txErr := runTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		for i := range pedidos {
			pedido, err := s.pedidos.FindByIDForUpdateTx(tx, pedidos[i].ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // raced with another delete
				}
				return err
			}
			if err := s.devolverDespachadoTx(tx, pedido); err != nil {
				return err
			}
			if err := s.pedidos.DeleteTx(tx, pedido.ID); err != nil {
				return err
			}
			eliminados++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Int("eliminados", eliminados).Msg("historial de pedidos eliminado")
	return &dto.BorrarHistorialResponse{
		Detail:     fmt.Sprintf("%d pedidos eliminados", eliminados),
		Eliminados: eliminados,
	}, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error) {
	pedidos, err := s.pedidos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, pedidoToResponse(&pedidos[i]))
	}
	return out, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.pedidos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPedidoNoEncontrado, id)
		}
		return nil, err
	}
	resp := pedidoToResponse(pedido)
	return &resp, nil
}

// ─── tx helpers ──────────────────────────────────────────────────────────────

// despacharPendientesTx dispatches every pending quantity on the pedido,
// debiting stock line by line under the product row locks. It returns the
// products that ended at or below their minimum, so the caller can raise
// alerts once the transaction commits.
func (s *pedidoService) despacharPendientesTx(tx *gorm.DB, pedido *model.Pedido) ([]*model.Producto, error) {
	var bajoMinimo []*model.Producto
	for i := range pedido.Items {
		linea := &pedido.Items[i]
		pendiente := linea.PendienteDespacho()
		if pendiente <= 0 {
			continue
		}
		producto, err := s.ledger.Ajustar(tx, linea.ProductoID, -pendiente)
		if err != nil {
			return nil, err
		}
		if producto.Stock <= producto.StockMinimo {
			bajoMinimo = append(bajoMinimo, producto)
		}
		linea.CantidadDespachada = linea.Cantidad
		if err := s.pedidos.UpdateLineaTx(tx, linea); err != nil {
			return nil, err
		}
	}
	return bajoMinimo, nil
}

// marcarDespachadasTx settles every line's counter as fully dispatched
// without touching stock. Used when appending to a despachado pedido: the
// old round already left inventory, only the bookkeeping catches up.
func (s *pedidoService) marcarDespachadasTx(tx *gorm.DB, pedido *model.Pedido) error {
	for i := range pedido.Items {
		linea := &pedido.Items[i]
		if linea.PendienteDespacho() <= 0 {
			continue
		}
		linea.CantidadDespachada = linea.Cantidad
		if err := s.pedidos.UpdateLineaTx(tx, linea); err != nil {
			return err
		}
	}
	return nil
}

// devolverDespachadoTx credits back only dispatched quantities and zeroes
// the counters. Undispatched quantities never left stock, so they are not
// credited.
func (s *pedidoService) devolverDespachadoTx(tx *gorm.DB, pedido *model.Pedido) error {
	for i := range pedido.Items {
		linea := &pedido.Items[i]
		if linea.CantidadDespachada <= 0 {
			continue
		}
		if _, err := s.ledger.Ajustar(tx, linea.ProductoID, linea.CantidadDespachada); err != nil {
			return err
		}
		linea.CantidadDespachada = 0
		if err := s.pedidos.UpdateLineaTx(tx, linea); err != nil {
			return err
		}
	}
	return nil
}

// ─── side effects ────────────────────────────────────────────────────────────

// marcarMesa updates the mesa's informational estado. Best effort: the
// authoritative occupancy signal is the active pedido itself.
func (s *pedidoService) marcarMesa(ctx context.Context, mesaID uuid.UUID, estado string) {
	if s.mesas == nil {
		return
	}
	var tx *gorm.DB
	if db := s.pedidos.DB(); db != nil {
		tx = db.WithContext(ctx)
	}
	if err := s.mesas.UpdateEstadoTx(tx, mesaID, estado); err != nil {
		log.Warn().Err(err).Str("mesa_id", mesaID.String()).Msg("no se pudo actualizar estado de mesa")
	}
}

func (s *pedidoService) liberarMesaSiLibre(ctx context.Context, mesaID string) {
	id, err := uuid.Parse(mesaID)
	if err != nil {
		return
	}
	desde := time.Now().Add(-s.ventana)
	if _, err := s.pedidos.FindActivoPorMesa(ctx, id, desde); errors.Is(err, gorm.ErrRecordNotFound) {
		s.marcarMesa(ctx, id, model.MesaDisponible)
	}
}

func (s *pedidoService) alertarBajoMinimo(ctx context.Context, p *model.Producto) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.AlertaStockPayload{
		ProductoID:  p.ID.String(),
		Nombre:      p.Nombre,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
	}
	if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
		log.Warn().Err(err).Str("producto", p.Nombre).Msg("no se pudo encolar alerta de stock")
	}
}

func (s *pedidoService) encolarTicket(ctx context.Context, pedido *dto.PedidoResponse) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueTicket(ctx, worker.TicketPayload{PedidoID: pedido.ID}); err != nil {
		log.Warn().Err(err).Str("pedido_id", pedido.ID).Msg("no se pudo encolar ticket")
	}
}

// ─── mapping ─────────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	resp := dto.PedidoResponse{
		ID:        p.ID.String(),
		MesaID:    p.MesaID.String(),
		FechaHora: p.FechaHora.Format(time.RFC3339),
		Estado:    p.Estado,
		Total:     p.Total,
		Productos: make([]dto.LineaPedidoResponse, 0, len(p.Items)),
	}
	if p.MeseraID != nil {
		id := p.MeseraID.String()
		resp.MeseraID = &id
	}
	if p.UsuarioID != nil {
		id := p.UsuarioID.String()
		resp.UsuarioID = &id
	}
	if p.Mesera != nil {
		resp.MeseraNombre = p.Mesera.Nombre
	}
	if p.Mesa != nil {
		resp.MesaNumero = p.Mesa.Numero
	}
	for i := range p.Items {
		l := &p.Items[i]
		lr := dto.LineaPedidoResponse{
			ID:                 l.ID.String(),
			ProductoID:         l.ProductoID.String(),
			Cantidad:           l.Cantidad,
			PrecioUnitario:     l.PrecioUnitario,
			CantidadDespachada: l.CantidadDespachada,
			PendienteDespacho:  l.PendienteDespacho(),
			Subtotal:           l.Subtotal(),
		}
		if l.Producto != nil {
			lr.ProductoNombre = l.Producto.Nombre
		}
		resp.Productos = append(resp.Productos, lr)
	}
	return resp
}

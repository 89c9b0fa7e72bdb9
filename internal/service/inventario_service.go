package service

import (
	"context"
	"fmt"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService records manual stock adjustments (restock, corrections,
// returns). Order processing manages stock directly through the StockLedger
// and never goes through here.
type InventarioService interface {
	CrearMovimiento(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.CrearMovimientoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoRepository
	ledger      StockLedger
	dispatcher  *worker.Dispatcher
}

func NewInventarioService(
	productos repository.ProductoRepository,
	movimientos repository.MovimientoRepository,
	ledger StockLedger,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		productos:   productos,
		movimientos: movimientos,
		ledger:      ledger,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// CrearMovimiento validates the payload before opening a transaction, then
// atomically locks the product, moves the stock counter and persists the
// audit entry. Any failure rolls the whole transaction back — no partial
// effects.
func (s *inventarioService) CrearMovimiento(ctx context.Context, req dto.CrearMovimientoRequest) (*dto.CrearMovimientoResponse, error) {
	if req.Tipo != model.MovimientoEntrada && req.Tipo != model.MovimientoSalida {
		return nil, fmt.Errorf("%w: tipo debe ser entrada o salida", ErrPayloadInvalido)
	}
	if req.Cantidad <= 0 {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", ErrPayloadInvalido)
	}
	if !motivoValido(req.Motivo) {
		return nil, fmt.Errorf("%w: motivo desconocido %q", ErrPayloadInvalido, req.Motivo)
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id inválido", ErrPayloadInvalido)
	}
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, req.ProductoID)
	}

	delta := req.Cantidad
	if req.Tipo == model.MovimientoSalida {
		delta = -req.Cantidad
	}

	var movimiento model.Movimiento
	var producto *model.Producto

	txErr := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		producto, err = s.ledger.Ajustar(tx, productoID, delta)
		if err != nil {
			return err
		}

		movimiento = model.Movimiento{
			ProductoID: productoID,
			Tipo:       req.Tipo,
			Cantidad:   req.Cantidad,
			Motivo:     req.Motivo,
			Usuario:    req.Usuario,
		}
		return s.movimientos.CreateTx(tx, &movimiento)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("producto", producto.Nombre).
		Str("tipo", req.Tipo).
		Int("cantidad", req.Cantidad).
		Int("stock", producto.Stock).
		Str("usuario", req.Usuario).
		Msg("movimiento registrado")

	s.alertarSiBajoMinimo(ctx, producto)

	resp := &dto.CrearMovimientoResponse{
		Movimiento: movimientoToResponse(&movimiento, producto.Nombre),
		Producto:   productoToResponse(producto),
	}
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movimientos, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		nombre := ""
		if movimientos[i].Producto != nil {
			nombre = movimientos[i].Producto.Nombre
		}
		items = append(items, movimientoToResponse(&movimientos[i], nombre))
	}
	return &dto.MovimientoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productos.ListBajoMinimo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}

// alertarSiBajoMinimo enqueues a low-stock alert job. Best effort — a full
// queue or a down Redis never fails the stock operation itself.
func (s *inventarioService) alertarSiBajoMinimo(ctx context.Context, p *model.Producto) {
	if s.dispatcher == nil || p.Stock > p.StockMinimo {
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

func motivoValido(motivo string) bool {
	for _, m := range model.MotivosMovimiento {
		if m == motivo {
			return true
		}
	}
	return false
}

func movimientoToResponse(m *model.Movimiento, productoNombre string) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:         m.ID.String(),
		ProductoID: m.ProductoID.String(),
		Producto:   productoNombre,
		Tipo:       m.Tipo,
		Cantidad:   m.Cantidad,
		Motivo:     m.Motivo,
		Usuario:    m.Usuario,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}

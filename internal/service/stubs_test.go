package service

import (
	"context"
	"sort"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(nombre string, stock, minimo int, precio string) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		Stock:       stock,
		StockMinimo: minimo,
		StockMaximo: 100,
		Precio:      decimal.RequireFromString(precio),
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) ListBajoMinimo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Stock <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── In-memory MovimientoRepository stub ──────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.Movimiento
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.Movimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var out []model.Movimiento
	for _, m := range r.movimientos {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ── In-memory PedidoRepository stub ──────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) Create(_ context.Context, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && p.Estado != filter.Estado {
			continue
		}
		if filter.MeseraID != "" && (p.MeseraID == nil || p.MeseraID.String() != filter.MeseraID) {
			continue
		}
		if filter.UsuarioID != "" && (p.UsuarioID == nil || p.UsuarioID.String() != filter.UsuarioID) {
			continue
		}
		if filter.Sistema && (p.MeseraID != nil || p.UsuarioID == nil) {
			continue
		}
		if filter.Fecha != "" && p.FechaHora.Format("2006-01-02") != filter.Fecha {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPedidoRepo) FindActivoPorMesa(_ context.Context, mesaID uuid.UUID, desde time.Time) (*model.Pedido, error) {
	var best *model.Pedido
	for _, p := range r.pedidos {
		if p.MesaID != mesaID || !p.EsActivo() || p.FechaHora.Before(desde) {
			continue
		}
		if best == nil || p.FechaHora.After(best.FechaHora) {
			best = p
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubPedidoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) CreateLineaTx(_ *gorm.DB, l *model.PedidoProducto) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	p, ok := r.pedidos[l.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Items = append(p.Items, *l)
	return nil
}

func (r *stubPedidoRepo) UpdateLineaTx(_ *gorm.DB, l *model.PedidoProducto) error {
	p, ok := r.pedidos[l.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range p.Items {
		if p.Items[i].ID == l.ID {
			p.Items[i].Cantidad = l.Cantidad
			p.Items[i].CantidadDespachada = l.CantidadDespachada
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) UpdateTotalEstadoTx(_ *gorm.DB, id uuid.UUID, total interface{}, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t, ok := total.(decimal.Decimal); ok {
		p.Total = t
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

// ── In-memory MesaRepository stub ────────────────────────────────────────────

type stubMesaRepo struct {
	mesas map[uuid.UUID]*model.Mesa
}

func newStubMesaRepo() *stubMesaRepo {
	return &stubMesaRepo{mesas: make(map[uuid.UUID]*model.Mesa)}
}

func (r *stubMesaRepo) add(numero string) *model.Mesa {
	m := &model.Mesa{ID: uuid.New(), Numero: numero, Capacidad: 4, Estado: model.MesaDisponible}
	r.mesas[m.ID] = m
	return m
}

func (r *stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	m, ok := r.mesas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMesaRepo) FindByNumero(_ context.Context, numero string) (*model.Mesa, error) {
	for _, m := range r.mesas {
		if m.Numero == numero {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMesaRepo) List(_ context.Context) ([]model.Mesa, error) {
	out := make([]model.Mesa, 0, len(r.mesas))
	for _, m := range r.mesas {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero < out[j].Numero })
	return out, nil
}

func (r *stubMesaRepo) Update(_ context.Context, m *model.Mesa) error {
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	m, ok := r.mesas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Estado = estado
	return nil
}

func (r *stubMesaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.mesas, id)
	return nil
}

// ── In-memory CategoriaRepository stub ───────────────────────────────────────

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	out := make([]model.Categoria, 0, len(r.categorias))
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubCategoriaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categorias, id)
	return nil
}

// ── In-memory MeseraRepository stub ──────────────────────────────────────────

type stubMeseraRepo struct {
	meseras map[uuid.UUID]*model.Mesera
}

func newStubMeseraRepo() *stubMeseraRepo {
	return &stubMeseraRepo{meseras: make(map[uuid.UUID]*model.Mesera)}
}

func (r *stubMeseraRepo) Create(_ context.Context, m *model.Mesera) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.meseras[m.ID] = m
	return nil
}

func (r *stubMeseraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesera, error) {
	m, ok := r.meseras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMeseraRepo) List(_ context.Context) ([]model.Mesera, error) {
	out := make([]model.Mesera, 0, len(r.meseras))
	for _, m := range r.meseras {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubMeseraRepo) Update(_ context.Context, m *model.Mesera) error {
	r.meseras[m.ID] = m
	return nil
}

func (r *stubMeseraRepo) UpdateCodigo(_ context.Context, id uuid.UUID, codigo string) error {
	m, ok := r.meseras[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Codigo = codigo
	return nil
}

func (r *stubMeseraRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.meseras, id)
	return nil
}

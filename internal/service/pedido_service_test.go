package service

import (
	"context"
	"testing"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pedidoFixture struct {
	productos *stubProductoRepo
	pedidos   *stubPedidoRepo
	mesas     *stubMesaRepo
	svc       PedidoService
}

func newPedidoFixture() *pedidoFixture {
	productos := newStubProductoRepo()
	pedidos := newStubPedidoRepo()
	mesas := newStubMesaRepo()
	ledger := NewStockLedger(productos)
	svc := NewPedidoService(pedidos, productos, mesas, ledger, nil, 24*time.Hour)
	return &pedidoFixture{productos: productos, pedidos: pedidos, mesas: mesas, svc: svc}
}

func lineaReq(p *model.Producto, cantidad int) dto.LineaPedidoRequest {
	return dto.LineaPedidoRequest{ProductoID: p.ID.String(), Cantidad: cantidad}
}

func crearPedidoReq(mesa *model.Mesa, meseraID uuid.UUID, lineas ...dto.LineaPedidoRequest) dto.CrearPedidoRequest {
	id := meseraID.String()
	return dto.CrearPedidoRequest{
		MesaID:    mesa.ID.String(),
		MeseraID:  &id,
		Productos: lineas,
	}
}

func TestCrearPedidoNoDescuentaStock(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("5")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")

	resp, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 4)))
	require.NoError(t, err)

	assert.Equal(t, model.PedidoPendiente, resp.Estado)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("32.00")))
	require.Len(t, resp.Productos, 1)
	assert.Equal(t, 4, resp.Productos[0].Cantidad)
	assert.Equal(t, 0, resp.Productos[0].CantidadDespachada)

	// stock only moves at dispatch
	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 50, p.Stock)
}

func TestCrearPedidoMesaConPedidoActivoConflicto(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("3")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	primero, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 1)))
	require.NoError(t, err)

	_, err = f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 2)))
	require.Error(t, err)

	var activo *PedidoActivoError
	require.ErrorAs(t, err, &activo)
	assert.Equal(t, primero.ID, activo.PedidoID)
	assert.Equal(t, "3", activo.MesaNumero)
}

func TestCrearPedidoForceAppendFusionaLineas(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("7")
	ron := f.productos.add("Ron", 20, 5, "15.00")
	gin := f.productos.add("Gin", 10, 2, "18.00")

	meseraID := uuid.New()
	primero, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, meseraID, lineaReq(ron, 2)))
	require.NoError(t, err)

	req := crearPedidoReq(mesa, meseraID, lineaReq(ron, 1), lineaReq(gin, 3))
	req.ForceAppend = true
	segundo, err := f.svc.CrearPedido(context.Background(), req)
	require.NoError(t, err)

	// same pedido, merged line for ron, new line for gin
	assert.Equal(t, primero.ID, segundo.ID)
	require.Len(t, segundo.Productos, 2)

	porNombre := make(map[string]dto.LineaPedidoResponse)
	for _, l := range segundo.Productos {
		porNombre[l.ProductoID] = l
	}
	assert.Equal(t, 3, porNombre[ron.ID.String()].Cantidad)
	assert.Equal(t, 3, porNombre[gin.ID.String()].Cantidad)

	// 2*15 + 1*15 + 3*18 = 99
	assert.True(t, segundo.Total.Equal(decimal.RequireFromString("99.00")))
}

func TestAgregarSinPedidoActivo(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("9")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	_, err := f.svc.AgregarAPedidoActivo(context.Background(), mesa.ID, []dto.LineaPedidoRequest{lineaReq(ron, 1)})
	assert.ErrorIs(t, err, ErrSinPedidoActivo)
}

func TestAppendAPendienteNoMueveStock(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("2")
	vodka := f.productos.add("Vodka", 30, 5, "12.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(vodka, 5)))
	require.NoError(t, err)

	// the old round is still pending; the append only grows the line
	resp, err := f.svc.AgregarAPedidoActivo(context.Background(), mesa.ID, []dto.LineaPedidoRequest{lineaReq(vodka, 2)})
	require.NoError(t, err)

	assert.Equal(t, pedido.ID, resp.ID)
	assert.Equal(t, model.PedidoPendiente, resp.Estado)
	require.Len(t, resp.Productos, 1)
	assert.Equal(t, 7, resp.Productos[0].Cantidad)
	assert.Equal(t, 0, resp.Productos[0].CantidadDespachada)
	assert.Equal(t, 7, resp.Productos[0].PendienteDespacho)

	p, _ := f.productos.FindByID(context.Background(), vodka.ID)
	assert.Equal(t, 30, p.Stock)
}

func TestAppendADespachadoMarcaSinDebitar(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("2")
	vodka := f.productos.add("Vodka", 30, 5, "12.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(vodka, 5)))
	require.NoError(t, err)

	_, err = f.svc.ActualizarEstado(context.Background(), uuid.MustParse(pedido.ID), model.PedidoDespachado)
	require.NoError(t, err)

	// the dispatched round already left stock; appending settles its counter
	// and only queues the new units
	resp, err := f.svc.AgregarAPedidoActivo(context.Background(), mesa.ID, []dto.LineaPedidoRequest{lineaReq(vodka, 2)})
	require.NoError(t, err)

	assert.Equal(t, model.PedidoPendiente, resp.Estado)
	require.Len(t, resp.Productos, 1)
	assert.Equal(t, 7, resp.Productos[0].Cantidad)
	assert.Equal(t, 5, resp.Productos[0].CantidadDespachada)
	assert.Equal(t, 2, resp.Productos[0].PendienteDespacho)

	// no debit beyond the original dispatch
	p, _ := f.productos.FindByID(context.Background(), vodka.ID)
	assert.Equal(t, 25, p.Stock)
}

func TestDespacharLineaDebitaYEsIdempotente(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("4")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")
	tequila := f.productos.add("Tequila", 12, 3, "20.00")

	pedido, err := f.svc.CrearPedido(context.Background(),
		crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 6), lineaReq(tequila, 2)))
	require.NoError(t, err)

	pedidoID := uuid.MustParse(pedido.ID)
	lineaCerveza := uuid.MustParse(pedido.Productos[0].ID)

	resp, err := f.svc.DespacharLinea(context.Background(), pedidoID, lineaCerveza)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoPendiente, resp.PedidoEstado) // tequila still pending

	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 44, p.Stock)

	// retrying the same line is a no-op success, no double debit
	_, err = f.svc.DespacharLinea(context.Background(), pedidoID, lineaCerveza)
	require.NoError(t, err)
	p, _ = f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 44, p.Stock)

	// dispatching the last line moves the pedido to despachado
	lineaTequila := uuid.MustParse(pedido.Productos[1].ID)
	resp, err = f.svc.DespacharLinea(context.Background(), pedidoID, lineaTequila)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoDespachado, resp.PedidoEstado)
}

func TestDespacharLineaSinStockSuficiente(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("6")
	whisky := f.productos.add("Whisky", 2, 1, "25.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(whisky, 5)))
	require.NoError(t, err)

	_, err = f.svc.DespacharLinea(context.Background(),
		uuid.MustParse(pedido.ID), uuid.MustParse(pedido.Productos[0].ID))
	require.ErrorIs(t, err, ErrStockInsuficiente)

	// nothing moved
	p, _ := f.productos.FindByID(context.Background(), whisky.ID)
	assert.Equal(t, 2, p.Stock)
	actual, err := f.svc.ObtenerPorID(context.Background(), uuid.MustParse(pedido.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, actual.Productos[0].CantidadDespachada)
}

func TestCancelarDevuelveSoloLoDespachado(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("8")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	pedido, err := f.svc.CrearPedido(context.Background(),
		crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 10), lineaReq(ron, 4)))
	require.NoError(t, err)
	pedidoID := uuid.MustParse(pedido.ID)

	// dispatch only the cerveza line
	_, err = f.svc.DespacharLinea(context.Background(), pedidoID, uuid.MustParse(pedido.Productos[0].ID))
	require.NoError(t, err)
	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	require.Equal(t, 40, p.Stock)

	resp, err := f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoCancelado)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoCancelado, resp.Estado)

	// dispatched cerveza returns, never-dispatched ron untouched
	p, _ = f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 50, p.Stock)
	r, _ := f.productos.FindByID(context.Background(), ron.ID)
	assert.Equal(t, 20, r.Stock)

	// dispatched counters were reset so a later purge credits nothing
	for _, l := range resp.Productos {
		assert.Equal(t, 0, l.CantidadDespachada)
	}
}

func TestEstadoTerminalNoAdmiteTransiciones(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("10")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 1)))
	require.NoError(t, err)
	pedidoID := uuid.MustParse(pedido.ID)

	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoCancelado)
	require.NoError(t, err)

	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoPendiente)
	assert.ErrorIs(t, err, ErrEstadoTerminal)
	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoFinalizada)
	assert.ErrorIs(t, err, ErrEstadoTerminal)

	// cancelled orders accept no appends either
	_, err = f.svc.AgregarAPedidoActivo(context.Background(), mesa.ID, []dto.LineaPedidoRequest{lineaReq(ron, 1)})
	assert.ErrorIs(t, err, ErrSinPedidoActivo)
}

func TestMarcarDespachadoDespachaTodo(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("11")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 3)))
	require.NoError(t, err)
	pedidoID := uuid.MustParse(pedido.ID)

	resp, err := f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoDespachado)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoDespachado, resp.Estado)
	assert.Equal(t, 3, resp.Productos[0].CantidadDespachada)

	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 47, p.Stock)

	// despachado → finalizada is the happy path end
	resp, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoFinalizada)
	require.NoError(t, err)
	assert.Equal(t, model.PedidoFinalizada, resp.Estado)
}

func TestDespacharTodoReportaProductosBajoMinimo(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("15")
	cerveza := f.productos.add("Cerveza", 12, 10, "8.00")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	pedido, err := f.svc.CrearPedido(context.Background(),
		crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 3), lineaReq(ron, 1)))
	require.NoError(t, err)

	almacenado, err := f.pedidos.FindByIDForUpdateTx(nil, uuid.MustParse(pedido.ID))
	require.NoError(t, err)

	// cerveza ends at 9 (minimum 10), ron at 19 (minimum 5)
	bajoMinimo, err := f.svc.(*pedidoService).despacharPendientesTx(nil, almacenado)
	require.NoError(t, err)
	require.Len(t, bajoMinimo, 1)
	assert.Equal(t, cerveza.ID, bajoMinimo[0].ID)
}

func TestFinalizarPendienteNoPermitido(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("12")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 1)))
	require.NoError(t, err)

	_, err = f.svc.ActualizarEstado(context.Background(), uuid.MustParse(pedido.ID), model.PedidoFinalizada)
	assert.ErrorIs(t, err, ErrPayloadInvalido)
}

func TestTotalNoCambiaConPrecioPosterior(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("13")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 2)))
	require.NoError(t, err)

	// price change after the order was taken
	ron.Precio = decimal.RequireFromString("99.00")
	require.NoError(t, f.productos.Update(context.Background(), ron))

	actual, err := f.svc.ObtenerPorID(context.Background(), uuid.MustParse(pedido.ID))
	require.NoError(t, err)
	assert.True(t, actual.Total.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, actual.Productos[0].PrecioUnitario.Equal(decimal.RequireFromString("15.00")))
}

func TestBorrarHistorialDevuelveStockDespachado(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("14")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 10)))
	require.NoError(t, err)
	pedidoID := uuid.MustParse(pedido.ID)

	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoDespachado)
	require.NoError(t, err)
	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoFinalizada)
	require.NoError(t, err)

	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	require.Equal(t, 40, p.Stock)

	resp, err := f.svc.BorrarHistorial(context.Background(), dto.PedidoFilter{Estado: model.PedidoFinalizada})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Eliminados)

	p, _ = f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 50, p.Stock)

	_, err = f.svc.ObtenerPorID(context.Background(), pedidoID)
	assert.ErrorIs(t, err, ErrPedidoNoEncontrado)
}

func TestBorrarHistorialCanceladoNoAcreditaDosVeces(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("15")
	cerveza := f.productos.add("Cerveza", 50, 10, "8.00")

	pedido, err := f.svc.CrearPedido(context.Background(), crearPedidoReq(mesa, uuid.New(), lineaReq(cerveza, 5)))
	require.NoError(t, err)
	pedidoID := uuid.MustParse(pedido.ID)

	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoDespachado)
	require.NoError(t, err)
	_, err = f.svc.ActualizarEstado(context.Background(), pedidoID, model.PedidoCancelado)
	require.NoError(t, err)

	p, _ := f.productos.FindByID(context.Background(), cerveza.ID)
	require.Equal(t, 50, p.Stock)

	// purge the cancelled order: counters were reset at cancel, so no credit
	_, err = f.svc.BorrarHistorial(context.Background(), dto.PedidoFilter{Estado: model.PedidoCancelado})
	require.NoError(t, err)

	p, _ = f.productos.FindByID(context.Background(), cerveza.ID)
	assert.Equal(t, 50, p.Stock)
}

func TestBorrarHistorialSinCoincidencias(t *testing.T) {
	f := newPedidoFixture()
	_, err := f.svc.BorrarHistorial(context.Background(), dto.PedidoFilter{Estado: model.PedidoFinalizada})
	assert.ErrorIs(t, err, ErrNadaQueEliminar)
}

func TestCrearPedidoValidaciones(t *testing.T) {
	f := newPedidoFixture()
	mesa := f.mesas.add("16")
	ron := f.productos.add("Ron", 20, 5, "15.00")

	// no lines
	req := crearPedidoReq(mesa, uuid.New())
	_, err := f.svc.CrearPedido(context.Background(), req)
	assert.ErrorIs(t, err, ErrPayloadInvalido)

	// both actors set
	usuarioID := uuid.New().String()
	req = crearPedidoReq(mesa, uuid.New(), lineaReq(ron, 1))
	req.UsuarioID = &usuarioID
	_, err = f.svc.CrearPedido(context.Background(), req)
	assert.ErrorIs(t, err, ErrPayloadInvalido)

	// unknown mesa
	req = crearPedidoReq(&model.Mesa{ID: uuid.New(), Numero: "X"}, uuid.New(), lineaReq(ron, 1))
	_, err = f.svc.CrearPedido(context.Background(), req)
	assert.ErrorIs(t, err, ErrMesaNoEncontrada)

	// unknown producto
	req = crearPedidoReq(mesa, uuid.New(), dto.LineaPedidoRequest{ProductoID: uuid.New().String(), Cantidad: 1})
	_, err = f.svc.CrearPedido(context.Background(), req)
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

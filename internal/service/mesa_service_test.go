package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOcupacionMesaVacia(t *testing.T) {
	mesas := newStubMesaRepo()
	pedidos := newStubPedidoRepo()
	mesa := mesas.add("1")

	svc := NewMesaService(mesas, pedidos, 24*time.Hour)
	out, err := svc.Ocupacion(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, mesa.ID.String(), out[0].MesaID)
	assert.Equal(t, "1", out[0].Numero)
	assert.Nil(t, out[0].OcupadaPor)
	assert.Nil(t, out[0].OcupadaPorID)
	assert.Nil(t, out[0].Tipo)
	assert.Nil(t, out[0].PedidoID)
}

func TestOcupacionConPedidoDeMesera(t *testing.T) {
	mesas := newStubMesaRepo()
	pedidos := newStubPedidoRepo()
	mesa := mesas.add("2")

	meseraID := uuid.New()
	pedido := &model.Pedido{
		MesaID:    mesa.ID,
		MeseraID:  &meseraID,
		FechaHora: time.Now(),
		Estado:    model.PedidoPendiente,
		Total:     decimal.Zero,
		Mesera:    &model.Mesera{ID: meseraID, Nombre: "Laura"},
	}
	require.NoError(t, pedidos.Create(context.Background(), pedido))

	svc := NewMesaService(mesas, pedidos, 24*time.Hour)
	out, err := svc.Ocupacion(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	require.NotNil(t, out[0].Tipo)
	assert.Equal(t, "mesera", *out[0].Tipo)
	require.NotNil(t, out[0].OcupadaPorID)
	assert.Equal(t, fmt.Sprintf("mesera-%s", meseraID), *out[0].OcupadaPorID)
	require.NotNil(t, out[0].OcupadaPor)
	assert.Equal(t, "Laura", *out[0].OcupadaPor)
	require.NotNil(t, out[0].PedidoID)
	assert.Equal(t, pedido.ID.String(), *out[0].PedidoID)
}

func TestOcupacionConPedidoDeUsuario(t *testing.T) {
	mesas := newStubMesaRepo()
	pedidos := newStubPedidoRepo()
	mesa := mesas.add("BARRA")

	usuarioID := uuid.New()
	pedido := &model.Pedido{
		MesaID:    mesa.ID,
		UsuarioID: &usuarioID,
		FechaHora: time.Now(),
		Estado:    model.PedidoDespachado,
		Total:     decimal.Zero,
		Usuario:   &model.Usuario{ID: usuarioID, Username: "barra", Nombre: "barra"},
	}
	require.NoError(t, pedidos.Create(context.Background(), pedido))

	svc := NewMesaService(mesas, pedidos, 24*time.Hour)
	out, err := svc.Ocupacion(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	require.NotNil(t, out[0].Tipo)
	assert.Equal(t, "usuario", *out[0].Tipo)
	require.NotNil(t, out[0].OcupadaPorID)
	assert.Equal(t, fmt.Sprintf("usuario-%s", usuarioID), *out[0].OcupadaPorID)
	// system accounts surface their role name, matching the reports
	require.NotNil(t, out[0].OcupadaPor)
	assert.Equal(t, "BARTENDER", *out[0].OcupadaPor)
}

func TestOcupacionIgnoraPedidosFueraDeVentana(t *testing.T) {
	mesas := newStubMesaRepo()
	pedidos := newStubPedidoRepo()
	mesa := mesas.add("3")

	// an active pedido nobody closed out, left over from two days ago
	meseraID := uuid.New()
	stale := &model.Pedido{
		MesaID:    mesa.ID,
		MeseraID:  &meseraID,
		FechaHora: time.Now().Add(-48 * time.Hour),
		Estado:    model.PedidoPendiente,
		Total:     decimal.Zero,
	}
	require.NoError(t, pedidos.Create(context.Background(), stale))

	svc := NewMesaService(mesas, pedidos, 24*time.Hour)
	out, err := svc.Ocupacion(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].PedidoID)
	assert.Nil(t, out[0].OcupadaPorID)
}

func TestOcupacionIgnoraPedidosTerminales(t *testing.T) {
	mesas := newStubMesaRepo()
	pedidos := newStubPedidoRepo()
	mesa := mesas.add("4")

	meseraID := uuid.New()
	cerrado := &model.Pedido{
		MesaID:    mesa.ID,
		MeseraID:  &meseraID,
		FechaHora: time.Now(),
		Estado:    model.PedidoFinalizada,
		Total:     decimal.Zero,
	}
	require.NoError(t, pedidos.Create(context.Background(), cerrado))

	svc := NewMesaService(mesas, pedidos, 24*time.Hour)
	out, err := svc.Ocupacion(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].PedidoID)
}

func TestEliminarMesaInexistente(t *testing.T) {
	svc := NewMesaService(newStubMesaRepo(), newStubPedidoRepo(), 0)
	err := svc.Eliminar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMesaNoEncontrada)
}

package service

import (
	"context"
	"testing"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductoService() (ProductoService, *stubProductoRepo, *stubCategoriaRepo) {
	productos := newStubProductoRepo()
	categorias := newStubCategoriaRepo()
	return NewProductoService(productos, categorias), productos, categorias
}

func TestCrearProducto(t *testing.T) {
	svc, _, categorias := newProductoService()

	cat, err := svc.CrearCategoria(context.Background(), dto.CrearCategoriaRequest{Nombre: "Cervezas"})
	require.NoError(t, err)
	require.Len(t, categorias.categorias, 1)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Cerveza Águila",
		CategoriaID: &cat.ID,
		Stock:       30,
		StockMinimo: 10,
		StockMaximo: 60,
		Precio:      decimal.RequireFromString("8.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cerveza Águila", resp.Nombre)
	assert.Equal(t, 30, resp.Stock)
	require.NotNil(t, resp.CategoriaID)
	assert.Equal(t, cat.ID, *resp.CategoriaID)
}

func TestCrearProductoPrecioNegativo(t *testing.T) {
	svc, _, _ := newProductoService()

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre: "Cerveza",
		Precio: decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, ErrPayloadInvalido)
}

func TestCrearProductoCategoriaInexistente(t *testing.T) {
	svc, _, _ := newProductoService()

	categoriaID := uuid.New().String()
	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Cerveza",
		CategoriaID: &categoriaID,
		Precio:      decimal.RequireFromString("8.00"),
	})
	assert.Error(t, err)
}

func TestActualizarProductoParcial(t *testing.T) {
	svc, productos, _ := newProductoService()
	p := productos.add("Ron", 20, 5, "15.00")

	nuevoPrecio := decimal.RequireFromString("17.50")
	nuevoMinimo := 8
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Precio:      &nuevoPrecio,
		StockMinimo: &nuevoMinimo,
	})
	require.NoError(t, err)

	// untouched fields survive the partial update
	assert.Equal(t, "Ron", resp.Nombre)
	assert.Equal(t, 20, resp.Stock)
	assert.True(t, resp.Precio.Equal(nuevoPrecio))
	assert.Equal(t, 8, resp.StockMinimo)

	precioNegativo := decimal.RequireFromString("-5.00")
	_, err = svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{Precio: &precioNegativo})
	assert.ErrorIs(t, err, ErrPayloadInvalido)
}

func TestEliminarProductoInexistente(t *testing.T) {
	svc, _, _ := newProductoService()
	err := svc.Eliminar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductoNoEncontrado)
}

package service

import (
	"context"
	"testing"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/dto"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCrearMeseraGuardaHash(t *testing.T) {
	repo := newStubMeseraRepo()
	svc := NewMeseraService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearMeseraRequest{Nombre: "Laura", Codigo: "4821"})
	require.NoError(t, err)
	assert.Equal(t, "Laura", resp.Nombre)

	m, err := repo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.NotEqual(t, "4821", m.Codigo)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.Codigo), []byte("4821")))
}

func TestVerificarCodigoConHash(t *testing.T) {
	repo := newStubMeseraRepo()
	svc := NewMeseraService(repo)

	creada, err := svc.Crear(context.Background(), dto.CrearMeseraRequest{Nombre: "Laura", Codigo: "4821"})
	require.NoError(t, err)

	resp, err := svc.VerificarCodigo(context.Background(), "4821")
	require.NoError(t, err)
	assert.Equal(t, creada.ID, resp.ID)

	_, err = svc.VerificarCodigo(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestVerificarCodigoMigraPlaintext(t *testing.T) {
	repo := newStubMeseraRepo()
	svc := NewMeseraService(repo)

	// legacy record stored before hashing existed
	legacy := &model.Mesera{ID: uuid.New(), Nombre: "Carmen", Codigo: "7733"}
	require.NoError(t, repo.Create(context.Background(), legacy))

	resp, err := svc.VerificarCodigo(context.Background(), "7733")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID.String(), resp.ID)

	// the stored code is now a hash that still verifies
	m, err := repo.FindByID(context.Background(), legacy.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "7733", m.Codigo)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.Codigo), []byte("7733")))

	// and keeps working on the next login
	_, err = svc.VerificarCodigo(context.Background(), "7733")
	assert.NoError(t, err)
}

func TestCambiarCodigo(t *testing.T) {
	repo := newStubMeseraRepo()
	svc := NewMeseraService(repo)

	creada, err := svc.Crear(context.Background(), dto.CrearMeseraRequest{Nombre: "Laura", Codigo: "4821"})
	require.NoError(t, err)

	require.NoError(t, svc.CambiarCodigo(context.Background(), uuid.MustParse(creada.ID), "9912"))

	_, err = svc.VerificarCodigo(context.Background(), "4821")
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
	_, err = svc.VerificarCodigo(context.Background(), "9912")
	assert.NoError(t, err)

	err = svc.CambiarCodigo(context.Background(), uuid.New(), "1234")
	assert.ErrorIs(t, err, ErrMeseraNoEncontrada)
}

func TestEliminarMeseraInexistente(t *testing.T) {
	svc := NewMeseraService(newStubMeseraRepo())
	err := svc.Eliminar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMeseraNoEncontrada)
}

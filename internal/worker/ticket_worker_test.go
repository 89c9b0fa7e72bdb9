package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPedidos struct {
	repository.PedidoRepository
	pedido *model.Pedido
}

func (s *stubPedidos) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	if s.pedido != nil && s.pedido.ID == id {
		return s.pedido, nil
	}
	return nil, os.ErrNotExist
}

func TestTicketWorkerGeneraPDF(t *testing.T) {
	pedido := &model.Pedido{
		ID:        uuid.New(),
		FechaHora: time.Now(),
		Estado:    model.PedidoFinalizada,
		Total:     decimal.RequireFromString("24.00"),
		Items: []model.PedidoProducto{{
			ID:             uuid.New(),
			Cantidad:       3,
			PrecioUnitario: decimal.RequireFromString("8.00"),
			Producto:       &model.Producto{Nombre: "Cerveza"},
		}},
	}

	dir := t.TempDir()
	// no recipient configured: the PDF is written, nothing is mailed
	w := NewTicketWorker(&stubPedidos{pedido: pedido}, dir, nil, nil, "")

	raw, err := json.Marshal(TicketPayload{PedidoID: pedido.ID.String()})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), pedido.ID.String())
}

func TestTicketWorkerPayloadInvalidoNoReintenta(t *testing.T) {
	w := NewTicketWorker(&stubPedidos{}, t.TempDir(), nil, nil, "")

	// malformed payloads and bad ids are dropped, not retried
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"pedido_id":"no-es-uuid"}`)))
}

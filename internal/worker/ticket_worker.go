package worker

// ticket_worker.go
// Generates the PDF ticket for a finalized pedido from QueueTicket and,
// when a recipient is configured, mails it through the SMTP mailer behind
// the same circuit breaker the alert worker uses.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"
	"github.com/YSmoncada/MANDALA-PROYECT/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TicketWorker struct {
	pedidos        repository.PedidoRepository
	pdfStoragePath string
	mailer         *infra.Mailer
	cb             *infra.CircuitBreaker
	destinatario   string
}

func NewTicketWorker(pedidos repository.PedidoRepository, pdfStoragePath string, mailer *infra.Mailer, cb *infra.CircuitBreaker, destinatario string) *TicketWorker {
	return &TicketWorker{
		pedidos:        pedidos,
		pdfStoragePath: pdfStoragePath,
		mailer:         mailer,
		cb:             cb,
		destinatario:   destinatario,
	}
}

// Process renders the ticket PDF to disk. The file path is derived from the
// pedido id, so reprocessing the same job just overwrites the same file.
func (w *TicketWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TicketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ticket_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("ticket_worker: invalid pedido_id")
		return nil
	}

	pedido, err := w.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("ticket_worker: pedido not found")
		return err
	}

	path, err := infra.GenerateTicketPDF(pedido, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("ticket_worker: PDF generation failed")
		return err
	}

	log.Info().Str("pedido_id", payload.PedidoID).Str("pdf", path).Msg("ticket_worker: ticket generated")

	if w.destinatario == "" {
		return nil
	}

	subject := fmt.Sprintf("Ticket pedido %s", payload.PedidoID)
	body := fmt.Sprintf("Se adjunta el ticket del pedido %s.\n", payload.PedidoID)
	err = w.cb.Execute(func() error {
		return w.mailer.SendTicket(w.destinatario, subject, body, path)
	})
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("ticket_worker: failed to send ticket")
		return err
	}

	log.Info().Str("pedido_id", payload.PedidoID).Str("destinatario", w.destinatario).Msg("ticket_worker: ticket sent")
	return nil
}

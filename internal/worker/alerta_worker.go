package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertaStock.
// Sends a notification email to the configured recipients through the SMTP
// mailer, guarded by a circuit breaker so a downed SMTP server does not get
// hammered by every dispatch that crosses a minimum.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/infra"

	"github.com/rs/zerolog/log"
)

type AlertaStockWorker struct {
	mailer        *infra.Mailer
	cb            *infra.CircuitBreaker
	destinatarios []string
}

func NewAlertaStockWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, destinatarios []string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, cb: cb, destinatarios: destinatarios}
}

// Process sends the low-stock notification. Returns an error so the pool can
// retry and eventually dead-letter the job.
func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	if len(w.destinatarios) == 0 {
		log.Debug().Str("producto", payload.Nombre).Msg("alerta_worker: no recipients configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Alerta de stock: %s", payload.Nombre)
	body := fmt.Sprintf(
		"El producto %s alcanzó su stock mínimo.\n\nStock actual: %d\nStock mínimo: %d\n",
		payload.Nombre, payload.Stock, payload.StockMinimo,
	)

	err := w.cb.Execute(func() error {
		return w.mailer.SendAlerta(w.destinatarios, subject, body)
	})
	if err != nil {
		log.Error().Err(err).Str("producto", payload.Nombre).Msg("alerta_worker: failed to send alert")
		return err
	}

	log.Info().Str("producto", payload.Nombre).Int("stock", payload.Stock).Msg("alerta_worker: alert sent")
	return nil
}

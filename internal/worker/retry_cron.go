package worker

// retry_cron.go
// Background goroutine that periodically drains the dead letter queues and
// re-enqueues their jobs onto the original queues. Entries that already
// burned through too many total attempts stay parked in dlq:parked:{queue}
// so the cron never spins on a permanently broken job.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10

	// a job gets re-driven through the pool at most this many times in
	// total before it is parked for manual handling
	maxTotalAttempts = 9

	parkedPrefix = "dlq:parked:"
)

// StartRetryCron launches a goroutine that ticks every 5 minutes and gives
// dead-lettered jobs another chance. It respects the context for graceful
// shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, queue := range []string{QueueAlertaStock, QueueTicket} {
					redriveDLQ(ctx, rdb, queue)
				}
			}
		}
	}()
}

func redriveDLQ(ctx context.Context, rdb *redis.Client, queue string) {
	dlqKey := DLQPrefix + queue

	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err == redis.Nil {
			return // drained
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: failed to pop DLQ entry")
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}

		if entry.Attempts >= maxTotalAttempts {
			if err := rdb.LPush(ctx, parkedPrefix+queue, raw).Err(); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to park entry")
			} else {
				log.Warn().
					Str("queue", queue).
					Str("job_type", entry.JobType).
					Int("attempts", entry.Attempts).
					Msg("retry_cron: job parked after too many attempts")
			}
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Attempts: entry.Attempts}
		encoded, err := json.Marshal(job)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to marshal job")
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to re-enqueue job")
			// put it back so it is not lost
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return
		}

		log.Info().
			Str("queue", queue).
			Str("job_type", entry.JobType).
			Int("previous_attempts", entry.Attempts).
			Msg("retry_cron: job re-enqueued from DLQ")
	}
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint hit
const pgUniqueViolation = "23505"

// RecordSink is the persistence surface the loader writes box scores through.
// *repository.BoxScoreRepository satisfies it.
type RecordSink interface {
	ExistingPairs(ctx context.Context, pairs []models.GamePlayerKey) (map[models.GamePlayerKey]struct{}, error)
	BulkInsert(ctx context.Context, rows []*models.BoxScore) (int, error)
	InsertSkipConflicts(ctx context.Context, rows []*models.BoxScore) (int, error)
}

// Loader accumulates box score rows and writes them in batches. Duplicates
// are filtered three times over: the in-memory pair set catches repeats
// within a run, batches at or below checkThreshold are checked against the
// database before inserting, and the unique constraint catches whatever
// slips past both, in which case the batch is replayed row by row with
// conflicts skipped. Batches above the threshold skip the existence check
// and rely on the constraint.
type Loader struct {
	sink           RecordSink
	dedup          *Dedup
	batchSize      int
	checkThreshold int

	pending    []*models.BoxScore
	inserted   int
	duplicates int
}

// NewLoader creates a batch loader writing through the given sink
func NewLoader(sink RecordSink, dedup *Dedup, batchSize, checkThreshold int) *Loader {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Loader{
		sink:           sink,
		dedup:          dedup,
		batchSize:      batchSize,
		checkThreshold: checkThreshold,
	}
}

// Add queues one box score row, flushing when the batch fills. Rows whose
// (game, player) pair was already seen this run are dropped immediately.
func (l *Loader) Add(ctx context.Context, bs *models.BoxScore) error {
	key := bs.Key()
	if l.dedup.Seen(key) {
		l.duplicates++
		metrics.RecordDuplicate("memory", 1)
		log.Debug().
			Int("game_id", key.GameID).
			Int("player_id", key.PlayerID).
			Msg("Duplicate box score skipped")
		return nil
	}
	l.dedup.Add(key)

	l.pending = append(l.pending, bs)
	if len(l.pending) >= l.batchSize {
		return l.Flush(ctx)
	}
	return nil
}

// Flush writes all pending rows. On failure the rows stay queued so the
// caller can retry the flush.
func (l *Loader) Flush(ctx context.Context) error {
	if len(l.pending) == 0 {
		return nil
	}

	rows := l.pending
	start := time.Now()
	mode := "unchecked"

	if len(rows) <= l.checkThreshold {
		mode = "checked"
		pairs := make([]models.GamePlayerKey, len(rows))
		for i, bs := range rows {
			pairs[i] = bs.Key()
		}

		existing, err := l.sink.ExistingPairs(ctx, pairs)
		if err != nil {
			return fmt.Errorf("existence check failed: %w", err)
		}

		if len(existing) > 0 {
			fresh := rows[:0:0]
			for _, bs := range rows {
				if _, ok := existing[bs.Key()]; ok {
					continue
				}
				fresh = append(fresh, bs)
			}
			skipped := len(rows) - len(fresh)
			l.duplicates += skipped
			metrics.RecordDuplicate("database", skipped)
			log.Info().
				Int("skipped", skipped).
				Msg("Existing box scores filtered from batch")
			rows = fresh
		}

		if len(rows) == 0 {
			l.pending = nil
			metrics.RecordBatchFlush(mode, time.Since(start).Seconds())
			return nil
		}
	}

	n, err := l.sink.BulkInsert(ctx, rows)
	if err != nil {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
			return fmt.Errorf("batch flush failed: %w", err)
		}

		// Constraint tripped: replay the batch skipping conflicts
		mode = "fallback"
		n, err = l.sink.InsertSkipConflicts(ctx, rows)
		if err != nil {
			return fmt.Errorf("batch flush fallback failed: %w", err)
		}

		skipped := len(rows) - n
		l.duplicates += skipped
		metrics.RecordDuplicate("constraint", skipped)
		log.Warn().
			Int("inserted", n).
			Int("skipped", skipped).
			Msg("Bulk insert hit unique constraint, batch replayed row by row")
	}

	l.pending = nil
	l.inserted += n
	metrics.BoxScoresInserted.Add(float64(n))
	metrics.RecordBatchFlush(mode, time.Since(start).Seconds())

	log.Info().
		Str("mode", mode).
		Int("inserted", n).
		Int("total_inserted", l.inserted).
		Msg("Batch flushed")

	return nil
}

// Inserted returns the number of rows persisted so far
func (l *Loader) Inserted() int {
	return l.inserted
}

// DuplicatesSkipped returns the number of duplicate rows dropped so far
func (l *Loader) DuplicatesSkipped() int {
	return l.duplicates
}

// Pending returns the number of queued rows not yet flushed
func (l *Loader) Pending() int {
	return len(l.pending)
}

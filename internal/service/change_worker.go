package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// BoardChangesChannel is the NOTIFY channel written by the board triggers.
const BoardChangesChannel = "board_changes"

// ChangeWorker listens for PostgreSQL NOTIFY on board_changes and batches
// feed cache invalidations. Writes that bypass the services (other
// instances, manual SQL) still reach the cache this way; a burst of
// notifications inside one window costs a single invalidation.
type ChangeWorker struct {
	pool   *pgxpool.Pool
	cache  *CacheService
	window time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[string]int // table name -> notifications since last flush
}

// NewChangeWorker creates a cache invalidation worker.
func NewChangeWorker(pool *pgxpool.Pool, cache *CacheService, logger zerolog.Logger) *ChangeWorker {
	return &ChangeWorker{
		pool:    pool,
		cache:   cache,
		window:  2 * time.Second,
		log:     logger.With().Str("worker", "board-changes").Logger(),
		pending: make(map[string]int),
	}
}

// Start listens until ctx is cancelled, reconnecting after errors.
func (w *ChangeWorker) Start(ctx context.Context) {
	w.log.Info().Dur("window", w.window).Msg("starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				w.log.Info().Msg("stopping (context cancelled)")
				return
			}
			w.log.Warn().Err(err).Msg("listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				w.log.Info().Msg("stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on board_changes,
// and records notifications for the flush loop.
func (w *ChangeWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+BoardChangesChannel); err != nil {
		return err
	}
	w.log.Info().Msg("listening on " + BoardChangesChannel)

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		w.record(notification.Payload)
	}
}

func (w *ChangeWorker) record(table string) {
	if table == "" {
		return
	}
	w.mu.Lock()
	w.pending[table]++
	w.mu.Unlock()
}

func (w *ChangeWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and invalidates the feed once. It reports
// whether an invalidation was attempted.
func (w *ChangeWorker) flush(ctx context.Context) bool {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return false
	}
	batch := w.pending
	w.pending = make(map[string]int)
	w.mu.Unlock()

	if err := w.cache.InvalidateFeed(ctx); err != nil {
		w.log.Warn().Err(err).Msg("cache invalidate failed")
		return true
	}

	evt := w.log.Debug()
	total := 0
	for table, n := range batch {
		evt = evt.Int(table, n)
		total += n
	}
	evt.Int("notifications", total).Msg("feed invalidated")
	return true
}

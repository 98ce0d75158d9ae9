package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Medard30/StudyLoop/internal/config"
	"github.com/Medard30/StudyLoop/internal/db"
	"github.com/Medard30/StudyLoop/internal/repository"
	"github.com/Medard30/StudyLoop/internal/repository/memstore"
	"github.com/Medard30/StudyLoop/internal/service"
)

// storage bundles the stores for the configured driver.
type storage struct {
	posts   service.PostStore
	replies service.ReplyStore
	ledger  service.Ledger
	users   service.UserStore
	stats   service.StatsStore
	pool    *pgxpool.Pool // nil for the in-memory driver
}

func (s *storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("storage: using in-memory store, data is lost on restart")
		mem := memstore.New()
		return &storage{posts: mem, replies: mem, ledger: mem, users: mem, stats: mem}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}

	users := repository.NewUserRepo(pool)
	return &storage{
		posts:   repository.NewPostRepo(pool),
		replies: repository.NewReplyRepo(pool),
		ledger:  repository.NewLedgerRepo(pool),
		users:   users,
		stats:   users,
		pool:    pool,
	}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	applied, err := db.ApplyMigrations(ctx, pool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, v := range applied {
		log.Info().Str("version", v).Msg("migration applied")
	}
	return nil
}

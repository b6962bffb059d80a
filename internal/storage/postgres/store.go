package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// Store provides Postgres persistence for telemetry samples.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSample inserts one telemetry sample.
func (s *Store) PutSample(ctx context.Context, sample model.StatsSample) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO arena_stats_samples (
			observed_at, total_pools, live_survivors, global_pool_total, network_load
		) VALUES ($1, $2, $3, $4, $5)
	`,
		sample.ObservedAt,
		int64(sample.TotalPools),
		int64(sample.LiveSurvivors),
		sample.GlobalPoolTotal,
		sample.NetworkLoad,
	)
	return err
}

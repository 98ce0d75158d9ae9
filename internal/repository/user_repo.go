package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Medard30/StudyLoop/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// EnsureUser returns the user with the given name, creating it if it doesn't
// already exist.
func (r *UserRepo) EnsureUser(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetStats returns aggregate statistics from all tables.
func (r *UserRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM problem_posts) AS total_posts,
			(SELECT COUNT(*) FROM video_replies) AS total_replies,
			(SELECT COUNT(*) FROM vote_records) AS total_votes,
			(SELECT COUNT(*) FROM report_records) AS total_reports,
			(SELECT COUNT(*) FROM users) AS total_users`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalPosts, &stats.TotalReplies, &stats.TotalVotes,
		&stats.TotalReports, &stats.TotalUsers,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT dimension, COUNT(*) AS total
		FROM vote_records
		GROUP BY dimension`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.VotesByDimension = make(map[string]int)
	for _, d := range model.Dimensions {
		stats.VotesByDimension[string(d)] = 0
	}
	for rows.Next() {
		var dim string
		var count int
		if err := rows.Scan(&dim, &count); err != nil {
			return nil, err
		}
		stats.VotesByDimension[dim] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}

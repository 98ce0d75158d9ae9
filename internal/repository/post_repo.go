package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Medard30/StudyLoop/internal/model"
	"github.com/Medard30/StudyLoop/internal/tags"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

// CreatePost inserts p and fills its ID and CreatedAt from the database.
func (r *PostRepo) CreatePost(ctx context.Context, p *model.Post) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO problem_posts (title, course, tags, prompt, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		p.Title, p.Course, p.Tags, p.Prompt, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetPost returns a single post by id.
func (r *PostRepo) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, course, tags, prompt, author_id, created_at
		FROM problem_posts
		WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Course, &p.Tags, &p.Prompt, &p.AuthorID, &p.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

const postStatsColumns = `
		SELECT p.id, p.title, p.course, p.tags, p.prompt, p.author_id, p.created_at,
		       COUNT(r.id)::int AS reply_count,
		       COALESCE(SUM(r.clear + r.correct + r.concise), 0)::int AS score_sum
		FROM problem_posts p
		LEFT JOIN video_replies r ON r.post_id = p.id`

// ListPostStats pushes the search, course and tag filters down to SQL and
// returns the matching posts with their reply aggregates. Tag matching is by
// array containment, so only whole tags match.
func (r *PostRepo) ListPostStats(ctx context.Context, f model.PostFilter) ([]model.PostStats, error) {
	want := tags.Split(f.Tag)

	rows, err := r.pool.Query(ctx, postStatsColumns+`
		WHERE ($1::text = '' OR strpos(LOWER(p.title), LOWER($1)) > 0 OR strpos(LOWER(p.prompt), LOWER($1)) > 0)
		  AND ($2::text = '' OR LOWER(p.course) = LOWER($2))
		  AND (cardinality($3::text[]) = 0 OR string_to_array(LOWER(p.tags), ',') @> $3::text[])
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC`,
		f.Search, f.Course, want)
	if err != nil {
		return nil, err
	}
	return scanPostStats(rows)
}

// PostStatsSince returns posts created strictly after since, oldest first.
func (r *PostRepo) PostStatsSince(ctx context.Context, since time.Time, limit int) ([]model.PostStats, error) {
	rows, err := r.pool.Query(ctx, postStatsColumns+`
		WHERE p.created_at > $1
		GROUP BY p.id
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $2`,
		since, limit)
	if err != nil {
		return nil, err
	}
	return scanPostStats(rows)
}

func scanPostStats(rows pgx.Rows) ([]model.PostStats, error) {
	defer rows.Close()

	out := []model.PostStats{}
	for rows.Next() {
		var s model.PostStats
		err := rows.Scan(
			&s.ID, &s.Title, &s.Course, &s.Tags, &s.Prompt, &s.AuthorID, &s.CreatedAt,
			&s.ReplyCount, &s.ScoreSum,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

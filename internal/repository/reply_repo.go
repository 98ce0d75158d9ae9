package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Medard30/StudyLoop/internal/model"
)

type ReplyRepo struct {
	pool *pgxpool.Pool
}

func NewReplyRepo(pool *pgxpool.Pool) *ReplyRepo {
	return &ReplyRepo{pool: pool}
}

// CreateReply inserts r with zeroed counters. A missing post is reported as
// model.ErrNotFound through the foreign key.
func (r *ReplyRepo) CreateReply(ctx context.Context, reply *model.Reply) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO video_replies (post_id, video_url, video_path, transcript, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, upvotes, flags, clear, correct, concise, created_at`,
		reply.PostID, reply.VideoURL, reply.VideoPath, reply.Transcript, reply.AuthorID,
	).Scan(&reply.ID, &reply.Upvotes, &reply.Flags, &reply.Clear, &reply.Correct, &reply.Concise, &reply.CreatedAt)
	return mapNotFound(err)
}

// GetReply returns a single reply by id.
func (r *ReplyRepo) GetReply(ctx context.Context, id int64) (*model.Reply, error) {
	var reply model.Reply
	err := r.pool.QueryRow(ctx, `
		SELECT id, post_id, video_url, video_path, transcript,
		       upvotes, flags, clear, correct, concise, author_id, created_at
		FROM video_replies
		WHERE id = $1`, id,
	).Scan(
		&reply.ID, &reply.PostID, &reply.VideoURL, &reply.VideoPath, &reply.Transcript,
		&reply.Upvotes, &reply.Flags, &reply.Clear, &reply.Correct, &reply.Concise,
		&reply.AuthorID, &reply.CreatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &reply, nil
}

// RepliesForPost returns the replies of a post, newest first.
func (r *ReplyRepo) RepliesForPost(ctx context.Context, postID int64) ([]model.Reply, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, video_url, video_path, transcript,
		       upvotes, flags, clear, correct, concise, author_id, created_at
		FROM video_replies
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []model.Reply{}
	for rows.Next() {
		var reply model.Reply
		err := rows.Scan(
			&reply.ID, &reply.PostID, &reply.VideoURL, &reply.VideoPath, &reply.Transcript,
			&reply.Upvotes, &reply.Flags, &reply.Clear, &reply.Correct, &reply.Concise,
			&reply.AuthorID, &reply.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

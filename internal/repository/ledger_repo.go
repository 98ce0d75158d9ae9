package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Medard30/StudyLoop/internal/model"
)

type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

type counterSQL struct {
	inc string
	dec string
}

// voteCounters maps each dimension to fixed counter statements. Column names
// never come from request input.
var voteCounters = map[model.Dimension]counterSQL{
	model.DimensionClear: {
		inc: `UPDATE video_replies SET clear = clear + 1, upvotes = upvotes + 1 WHERE id = $1`,
		dec: `UPDATE video_replies SET clear = clear - 1, upvotes = upvotes - 1 WHERE id = $1`,
	},
	model.DimensionCorrect: {
		inc: `UPDATE video_replies SET correct = correct + 1, upvotes = upvotes + 1 WHERE id = $1`,
		dec: `UPDATE video_replies SET correct = correct - 1, upvotes = upvotes - 1 WHERE id = $1`,
	},
	model.DimensionConcise: {
		inc: `UPDATE video_replies SET concise = concise + 1, upvotes = upvotes + 1 WHERE id = $1`,
		dec: `UPDATE video_replies SET concise = concise - 1, upvotes = upvotes - 1 WHERE id = $1`,
	},
}

var reportCounters = counterSQL{
	inc: `UPDATE video_replies SET flags = flags + 1 WHERE id = $1`,
	dec: `UPDATE video_replies SET flags = flags - 1 WHERE id = $1`,
}

// ToggleVote flips the session's vote on one dimension of a reply. The reply
// row is locked for the duration of the transaction so concurrent toggles on
// the same reply serialize.
func (r *LedgerRepo) ToggleVote(ctx context.Context, replyID int64, sessionKey string, dim model.Dimension) (model.ToggleResult, error) {
	counters, ok := voteCounters[dim]
	if !ok {
		return "", fmt.Errorf("dimension %q: %w", dim, model.ErrInvalidInput)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if err := lockReply(ctx, tx, replyID); err != nil {
		return "", err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM vote_records
		WHERE reply_id = $1 AND session_key = $2 AND dimension = $3`,
		replyID, sessionKey, string(dim))
	if err != nil {
		return "", err
	}

	result, counter := model.ToggleRemoved, counters.dec
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO vote_records (reply_id, session_key, dimension)
			VALUES ($1, $2, $3)`,
			replyID, sessionKey, string(dim))
		if err != nil {
			return "", err
		}
		result, counter = model.ToggleAdded, counters.inc
	}

	if _, err := tx.Exec(ctx, counter, replyID); err != nil {
		return "", err
	}
	return result, tx.Commit(ctx)
}

// ToggleReport flips the session's report on a reply and adjusts flags.
func (r *LedgerRepo) ToggleReport(ctx context.Context, replyID int64, sessionKey string) (model.ToggleResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if err := lockReply(ctx, tx, replyID); err != nil {
		return "", err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM report_records WHERE reply_id = $1 AND session_key = $2`,
		replyID, sessionKey)
	if err != nil {
		return "", err
	}

	result, counter := model.ToggleRemoved, reportCounters.dec
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO report_records (reply_id, session_key) VALUES ($1, $2)`,
			replyID, sessionKey)
		if err != nil {
			return "", err
		}
		result, counter = model.ToggleAdded, reportCounters.inc
	}

	if _, err := tx.Exec(ctx, counter, replyID); err != nil {
		return "", err
	}
	return result, tx.Commit(ctx)
}

func lockReply(ctx context.Context, tx pgx.Tx, replyID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM video_replies WHERE id = $1 FOR UPDATE`, replyID).Scan(&id)
	return mapNotFound(err)
}

// VotesFor lists the active votes of one session.
func (r *LedgerRepo) VotesFor(ctx context.Context, sessionKey string) ([]model.VoteKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT reply_id, dimension FROM vote_records
		WHERE session_key = $1
		ORDER BY reply_id, dimension`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VoteKey{}
	for rows.Next() {
		var k model.VoteKey
		var dim string
		if err := rows.Scan(&k.ReplyID, &dim); err != nil {
			return nil, err
		}
		k.Dimension = model.Dimension(dim)
		out = append(out, k)
	}
	return out, rows.Err()
}

// ReportsFor lists the replies one session has reported.
func (r *LedgerRepo) ReportsFor(ctx context.Context, sessionKey string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT reply_id FROM report_records
		WHERE session_key = $1
		ORDER BY reply_id`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

package blog

import (
	"context"
	"fmt"

	"github.com/2beens/portfolioapi/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type CommentsRepo struct {
	db *pgxpool.Pool
}

func NewCommentsRepo(db *pgxpool.Pool) *CommentsRepo {
	return &CommentsRepo{
		db: db,
	}
}

func (r *CommentsRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.comments.listByPost")
	span.SetAttributes(attribute.String("post.id", postID.String()))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.body, c.post_id, c.author_id, u.username, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Body, &c.PostID, &c.Author.ID, &c.Author.Username, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentsRepo) Create(ctx context.Context, c *Comment) error {
	return r.db.QueryRow(
		ctx,
		`INSERT INTO comments (id, body, post_id, author_id) VALUES ($1, $2, $3, $4) RETURNING created_at;`,
		c.ID, c.Body, c.PostID, c.Author.ID,
	).Scan(&c.CreatedAt)
}

// DeleteByPost removes all comments of a post and returns how many were removed
func (r *CommentsRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE post_id = $1;`, postID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

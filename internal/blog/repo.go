package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// manual caching of prepared statements not needed:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

var ErrPostNotFound = apierr.NotFound("Blog post not found")

const selectPosts = `
	SELECT
		p.id, p.title, p.content, p.excerpt, p.cover_image, p.tags,
		p.author_id, u.username, p.published, p.created_at, p.updated_at
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id`

type PostsRepo struct {
	db *pgxpool.Pool
}

func NewPostsRepo(db *pgxpool.Pool) *PostsRepo {
	return &PostsRepo{
		db: db,
	}
}

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.CoverImage, &p.Tags,
		&p.Author.ID, &p.Author.Username, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostsRepo) ListPublished(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.blog.listPublished")
	defer span.End()

	rows, err := r.db.Query(ctx, selectPosts+` WHERE p.published ORDER BY p.created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *PostsRepo) PublishedCount(ctx context.Context) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.blog.publishedCount")
	defer span.End()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts WHERE published;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (r *PostsRepo) ListPublishedPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.blog.listPublishedPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	limit := size
	offset := (page - 1) * size
	log.Tracef("getting blog posts, limit %d, offset %d", limit, offset)

	rows, err := r.db.Query(
		ctx,
		selectPosts+`
			WHERE p.published
			ORDER BY p.created_at DESC
			LIMIT $1
			OFFSET $2;
		`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *PostsRepo) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.blog.get")
	span.SetAttributes(attribute.String("id", id.String()))
	defer span.End()

	post, err := scanPost(r.db.QueryRow(ctx, selectPosts+` WHERE p.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *PostsRepo) Create(ctx context.Context, p *Post) error {
	return r.db.QueryRow(
		ctx,
		`INSERT INTO blog_posts (id, title, content, excerpt, cover_image, tags, author_id, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at;`,
		p.ID, p.Title, p.Content, p.Excerpt, p.CoverImage, p.Tags, p.Author.ID, p.Published,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update writes the post only while it is still owned by authorID
func (r *PostsRepo) Update(ctx context.Context, p *Post, authorID uuid.UUID) error {
	err := r.db.QueryRow(
		ctx,
		`UPDATE blog_posts
		SET title = $3, content = $4, excerpt = $5, cover_image = $6, tags = $7, published = $8, updated_at = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING updated_at;`,
		p.ID, authorID, p.Title, p.Content, p.Excerpt, p.CoverImage, p.Tags, p.Published,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

func (r *PostsRepo) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1 AND author_id = $2;`, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

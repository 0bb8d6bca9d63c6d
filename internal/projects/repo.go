package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolioapi/internal/apierr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProjectNotFound = apierr.NotFound("Project not found")

const selectProjects = `
	SELECT
		p.id, p.title, p.description, p.image_url, p.repo_url, p.live_url,
		p.technologies, p.user_id, u.username, p.created_at, p.updated_at
	FROM projects p
	JOIN users u ON u.id = p.user_id`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	if err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.RepoURL, &p.LiveURL,
		&p.Technologies, &p.User.ID, &p.User.Username, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]*Project, error) {
	rows, err := r.db.Query(ctx, selectProjects+` ORDER BY p.created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, selectProjects+` WHERE p.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, p *Project) error {
	if p.ID == uuid.Nil || p.User.ID == uuid.Nil {
		return errors.New("project id or owner empty")
	}

	return r.db.QueryRow(
		ctx,
		`
			INSERT INTO projects (id, title, description, image_url, repo_url, live_url, technologies, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at;`,
		p.ID, p.Title, p.Description, p.ImageURL, p.RepoURL, p.LiveURL, p.Technologies, p.User.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update writes p only if it is still owned by ownerID, ErrProjectNotFound otherwise
func (r *Repo) Update(ctx context.Context, p *Project, ownerID uuid.UUID) error {
	err := r.db.QueryRow(
		ctx,
		`
			UPDATE projects
			SET title = $3, description = $4, image_url = $5, repo_url = $6, live_url = $7,
				technologies = $8, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING updated_at;`,
		p.ID, ownerID, p.Title, p.Description, p.ImageURL, p.RepoURL, p.LiveURL, p.Technologies,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// Delete removes the project only if it is owned by ownerID, ErrProjectNotFound otherwise
func (r *Repo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2;`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

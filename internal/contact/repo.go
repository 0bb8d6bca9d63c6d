package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/portfolioapi/internal/apierr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMessageNotFound = apierr.NotFound("Message not found")

const messageColumns = `id, name, email, message, read, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, m *Message) error {
	return r.db.QueryRow(
		ctx,
		`INSERT INTO messages (id, name, email, message) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at;`,
		m.ID, m.Name, m.Email, m.Message,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *Repo) List(ctx context.Context) ([]*Message, error) {
	rows, err := r.db.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *Repo) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := scanMessage(r.db.QueryRow(
		ctx,
		`UPDATE messages SET read = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+messageColumns+`;`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

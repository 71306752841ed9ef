package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-admin/internal/domain"
)

// DraftStore keeps drafts as JSONB rows in quiz_drafts.
// Rows past expires_at are treated as missing; a zero ttl never expires.
type DraftStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

func NewDraftStore(pool *pgxpool.Pool, ttl time.Duration) *DraftStore {
	return &DraftStore{pool: pool, ttl: ttl, now: time.Now}
}

func (s *DraftStore) Save(ctx context.Context, draft domain.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	savedAt := draft.SavedAt
	if savedAt.IsZero() {
		savedAt = s.now()
	}
	var expiresAt *time.Time
	if s.ttl > 0 {
		t := savedAt.Add(s.ttl)
		expiresAt = &t
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_drafts (name, data, saved_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at, expires_at = EXCLUDED.expires_at`,
		draft.Name, raw, savedAt, expiresAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Load(ctx context.Context, name string) (domain.Draft, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data FROM quiz_drafts
		WHERE name = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		name, s.now()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return draft, nil
}

func (s *DraftStore) Delete(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quiz_drafts WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *DraftStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name FROM quiz_drafts
		WHERE expires_at IS NULL OR expires_at > $1
		ORDER BY name`, s.now())
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan draft name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

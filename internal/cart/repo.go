package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"shopfront/pkg/models"
)

// Repo persists each session's cart as a single JSON blob that is fully
// rewritten on every mutation (last-writer-wins, no merge). A missing row
// or a corrupt blob reads as an empty cart: cart storage must never block
// the page.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Read(ctx context.Context, sessionID string) []models.CartLineItem {
	row := r.DB.QueryRowContext(ctx, `
		SELECT items FROM carts WHERE session_id = ?
	`, sessionID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[cart] read %s: %v", sessionID, err)
		}
		return []models.CartLineItem{}
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// corrupt blob: recover silently as an empty cart
		log.Printf("[cart] corrupt cart for %s, starting empty: %v", sessionID, err)
		return []models.CartLineItem{}
	}
	if items == nil {
		items = []models.CartLineItem{}
	}
	return items
}

func (r *Repo) Persist(ctx context.Context, sessionID string, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO carts (session_id, items, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET
			items = excluded.items,
			updated_at = CURRENT_TIMESTAMP
	`, sessionID, string(raw))
	if err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

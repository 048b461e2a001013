package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// NavigationRepository persists a whole [viewstate.Snapshot]: every context, the active
// tab/view selections and the current path.
type NavigationRepository struct {
	db *sql.DB
}

// NewNavigationRepository creates a [NavigationRepository].
func NewNavigationRepository(db *sql.DB) *NavigationRepository {
	return &NavigationRepository{db: db}
}

// Save writes snap in a single transaction.
func (r *NavigationRepository) Save(ctx context.Context, snap viewstate.Snapshot) error {
	now := time.Now()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, p := range snap.Contexts {
			v := models.NewViewContext(p.Path, p.BrowsingContext)
			if err := upsertViewContext(ctx, tx, v); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM view_active`); err != nil {
			return fmt.Errorf("failed to clear active selections: %w", err)
		}
		for _, sel := range snap.Active {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO view_active (card, tab, active) VALUES (?, ?, ?)`,
				string(sel.Card), string(sel.Tab), sel.Active,
			); err != nil {
				return fmt.Errorf("failed to save active selection %s/%s: %w", sel.Card, sel.Tab, err)
			}
		}

		cur := snap.Current
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO view_navigation (id, card, tab, view, updated_at) VALUES (1, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET card = excluded.card, tab = excluded.tab, view = excluded.view, updated_at = excluded.updated_at
		`, string(cur.Card), string(cur.Tab), string(cur.View), now); err != nil {
			return fmt.Errorf("failed to save current path: %w", err)
		}
		return nil
	})
}

// Load reads the saved snapshot. It reports false when nothing has been saved yet.
func (r *NavigationRepository) Load(ctx context.Context) (viewstate.Snapshot, bool, error) {
	var snap viewstate.Snapshot

	var card, tab, view string
	err := r.db.QueryRowContext(ctx, `SELECT card, tab, view FROM view_navigation WHERE id = 1`).Scan(&card, &tab, &view)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("failed to load current path: %w", err)
	}
	snap.Current = viewstate.Path{Card: viewstate.Card(card), Tab: viewstate.Tab(tab), View: viewstate.View(view)}

	rows, err := r.db.QueryContext(ctx, `SELECT card, tab, active FROM view_active ORDER BY card, tab`)
	if err != nil {
		return snap, false, fmt.Errorf("failed to load active selections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sel viewstate.Selection
		var c, t string
		if err := rows.Scan(&c, &t, &sel.Active); err != nil {
			return snap, false, fmt.Errorf("failed to scan active selection: %w", err)
		}
		sel.Card, sel.Tab = viewstate.Card(c), viewstate.Tab(t)
		snap.Active = append(snap.Active, sel)
	}
	if err := rows.Err(); err != nil {
		return snap, false, fmt.Errorf("row iteration error: %w", err)
	}

	stored, err := NewViewContextRepository(r.db).List(nil)
	if err != nil {
		return snap, false, err
	}
	for _, v := range stored {
		snap.Contexts = append(snap.Contexts, viewstate.Pointer{Path: v.Path(), BrowsingContext: v.Context()})
	}
	return snap, true, nil
}

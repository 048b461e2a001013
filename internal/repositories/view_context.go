package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

const viewContextColumns = `id, card, tab, view, offset_value, limit_value, filter, sort_tag, sort_desc, tag, search, scroll_pos, created_at, updated_at`

// ViewContextRepository implements [models.Repository] for [models.ViewContext] persistence.
type ViewContextRepository struct {
	db *sql.DB
}

// NewViewContextRepository creates a new [ViewContextRepository] with the given database connection
func NewViewContextRepository(db *sql.DB) *ViewContextRepository {
	return &ViewContextRepository{db: db}
}

// Create inserts a new context with a generated ID.
func (r *ViewContextRepository) Create(v *models.ViewContext) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	v.SetID(shared.GenerateID())

	args, err := viewContextArgs(v)
	if err != nil {
		return err
	}

	query := `INSERT INTO view_contexts (` + viewContextColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert view context %s: %w", v.Path(), err)
	}
	return nil
}

// Get retrieves a context by ID.
func (r *ViewContextRepository) Get(id string) (*models.ViewContext, error) {
	row := r.db.QueryRow(`SELECT `+viewContextColumns+` FROM view_contexts WHERE id = ?`, id)
	v, err := scanViewContext(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: view context %s", shared.ErrNotFound, id)
	}
	return v, err
}

// GetByPath retrieves the context stored for path.
func (r *ViewContextRepository) GetByPath(path viewstate.Path) (*models.ViewContext, error) {
	row := r.db.QueryRow(
		`SELECT `+viewContextColumns+` FROM view_contexts WHERE card = ? AND tab = ? AND view = ?`,
		string(path.Card), string(path.Tab), string(path.View),
	)
	v, err := scanViewContext(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: view context %s", shared.ErrNotFound, path)
	}
	return v, err
}

// Update overwrites the stored fields of an existing context.
func (r *ViewContextRepository) Update(v *models.ViewContext) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	v.SetUpdatedAt(time.Now())

	c := v.Context()
	filter, err := encodeFilter(c.Filter)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE view_contexts
		SET offset_value = ?, limit_value = ?, filter = ?, sort_tag = ?, sort_desc = ?, tag = ?, search = ?, scroll_pos = ?, updated_at = ?
		WHERE id = ?
	`, c.Offset, c.Limit, filter, c.Sort.Tag, c.Sort.Desc, c.Tag, c.Search, c.ScrollPos, v.UpdatedAt(), v.ID())
	if err != nil {
		return fmt.Errorf("failed to update view context: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: view context %s", shared.ErrNotFound, v.ID())
	}
	return nil
}

// Delete removes a context by ID.
func (r *ViewContextRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM view_contexts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view context: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: view context %s", shared.ErrNotFound, id)
	}
	return nil
}

// List retrieves stored contexts, optionally narrowed by "card".
func (r *ViewContextRepository) List(criteria map[string]any) ([]*models.ViewContext, error) {
	query := `SELECT ` + viewContextColumns + ` FROM view_contexts WHERE 1 = 1`
	args := []any{}

	if card, ok := criteria["card"].(string); ok && card != "" {
		query += " AND card = ?"
		args = append(args, card)
	}
	query += " ORDER BY card, tab, view"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query view contexts: %w", err)
	}
	defer rows.Close()

	var out []*models.ViewContext
	for rows.Next() {
		v, err := scanViewContext(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// upsert writes v keyed by its path, keeping the row ID and creation time of an existing row.
func upsertViewContext(ctx context.Context, ex execer, v *models.ViewContext) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed for %s: %w", v.Path(), err)
	}
	if v.ID() == "" {
		v.SetID(shared.GenerateID())
	}
	args, err := viewContextArgs(v)
	if err != nil {
		return err
	}

	query := `INSERT INTO view_contexts (` + viewContextColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (card, tab, view) DO UPDATE SET
			offset_value = excluded.offset_value,
			limit_value = excluded.limit_value,
			filter = excluded.filter,
			sort_tag = excluded.sort_tag,
			sort_desc = excluded.sort_desc,
			tag = excluded.tag,
			search = excluded.search,
			scroll_pos = excluded.scroll_pos,
			updated_at = excluded.updated_at`
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save view context %s: %w", v.Path(), err)
	}
	return nil
}

func viewContextArgs(v *models.ViewContext) ([]any, error) {
	c := v.Context()
	filter, err := encodeFilter(c.Filter)
	if err != nil {
		return nil, err
	}
	p := v.Path()
	return []any{
		v.ID(), string(p.Card), string(p.Tab), string(p.View),
		c.Offset, c.Limit, filter, c.Sort.Tag, c.Sort.Desc, c.Tag, c.Search, c.ScrollPos,
		v.CreatedAt(), v.UpdatedAt(),
	}, nil
}

func scanViewContext(row rowScanner) (*models.ViewContext, error) {
	var (
		id, card, tab, view string
		offset, limit       int
		filter, sortTag     string
		sortDesc            bool
		tag, search         string
		scrollPos           float64
		createdAt           time.Time
		updatedAt           time.Time
	)
	err := row.Scan(&id, &card, &tab, &view, &offset, &limit, &filter, &sortTag, &sortDesc, &tag, &search, &scrollPos, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan view context: %w", err)
	}

	f, err := decodeFilter(filter)
	if err != nil {
		return nil, err
	}

	path := viewstate.Path{Card: viewstate.Card(card), Tab: viewstate.Tab(tab), View: viewstate.View(view)}
	v := models.NewViewContext(path, viewstate.BrowsingContext{
		Offset:    offset,
		Limit:     limit,
		Filter:    f,
		Sort:      viewstate.Sort{Tag: sortTag, Desc: sortDesc},
		Tag:       tag,
		Search:    search,
		ScrollPos: scrollPos,
	})
	v.SetID(id)
	v.SetCreatedAt(createdAt)
	v.SetUpdatedAt(updatedAt)
	return v, nil
}

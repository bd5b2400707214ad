// Package sqlite keeps an archive of saved estimate sheets in a SQLite
// database using database/sql. Each save is one transaction: the sheet
// header with its totals, then one row per line item.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no archived sheet has the requested ID.
var ErrNotFound = errors.New("sqlite: estimate not found")

var schemaDDL = []string{`
CREATE TABLE IF NOT EXISTS estimates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	saved_at    INTEGER NOT NULL, -- unix nanoseconds
	items       INTEGER NOT NULL,
	volume_m3   REAL NOT NULL,
	formwork_m2 REAL NOT NULL,
	steel_kg    REAL NOT NULL,
	currency    TEXT NOT NULL,
	cost_total  TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS line_items (
	estimate_id TEXT NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	id          TEXT NOT NULL,
	element     TEXT NOT NULL,
	label       TEXT NOT NULL,
	slab_type   INTEGER NOT NULL,
	volume_m3   REAL NOT NULL,
	formwork_m2 REAL NOT NULL,
	steel_kg    REAL NOT NULL,
	inputs      TEXT NOT NULL,
	results     TEXT NOT NULL,
	PRIMARY KEY (estimate_id, position)
)`}

// Record is the archived header of one sheet.
type Record struct {
	ID         string
	Name       string
	CreatedAt  string
	SavedAt    time.Time
	Items      int
	Quantities model.Quantities
	Currency   string
	Cost       decimal.Decimal
}

// Archive stores estimate sheets.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// NewArchive opens the SQLite database at dsn, creates the tables if
// needed and returns the archive plus a close function.
//
//	"file:estimates.db?_pragma=busy_timeout(5000)"
//	"estimates.db"
func NewArchive(ctx context.Context, dsn string) (*Archive, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection so ":memory:" databases are shared and writes serialise.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("sqlite: create tables: %w", err)
		}
	}

	closeFn := func() { db.Close() }
	return &Archive{db: db, now: time.Now}, closeFn, nil
}

// Save writes the sheet with its totals and cost. Saving a sheet ID again
// replaces the earlier copy.
func (a *Archive) Save(ctx context.Context, sheet estimate.Sheet, prices model.PriceList) error {
	if sheet.ID == "" {
		return fmt.Errorf("sqlite: save: sheet has no ID")
	}
	totals := sheet.Totals()
	cost := sheet.Cost(prices)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE estimate_id = ?`, sheet.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: clear items: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO estimates
		(id, name, created_at, saved_at, items, volume_m3, formwork_m2, steel_kg, currency, cost_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sheet.ID, sheet.Name, sheet.CreatedAt, a.now().UnixNano(), len(sheet.Items),
		totals.VolumeM3, totals.FormworkM2, totals.SteelKg, cost.Currency, cost.Total.String())
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: insert estimate: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO line_items
		(estimate_id, position, id, element, label, slab_type, volume_m3, formwork_m2, steel_kg, inputs, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range sheet.Items {
		inputs, err := json.Marshal(it.Inputs)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: encode inputs: %w", err)
		}
		results, err := json.Marshal(it.Results)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: encode results: %w", err)
		}
		q := it.Quantities
		if _, err := stmt.ExecContext(ctx, sheet.ID, i, it.ID, string(it.Element), it.Label, int(it.SlabType),
			q.VolumeM3, q.FormworkM2, q.SteelKg, string(inputs), string(results)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// List returns the most recently saved sheets first. A limit of zero or
// less returns all of them.
func (a *Archive) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, name, created_at, saved_at, items, volume_m3, formwork_m2, steel_kg, currency, cost_total
		FROM estimates ORDER BY saved_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	return out, nil
}

// Load reads an archived sheet back with its line items in order.
func (a *Archive) Load(ctx context.Context, id string) (estimate.Sheet, error) {
	var sheet estimate.Sheet
	err := a.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM estimates WHERE id = ?`, id).
		Scan(&sheet.ID, &sheet.Name, &sheet.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sheet, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return sheet, fmt.Errorf("sqlite: load: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `SELECT id, element, label, slab_type, volume_m3, formwork_m2, steel_kg, inputs, results
		FROM line_items WHERE estimate_id = ? ORDER BY position`, id)
	if err != nil {
		return sheet, fmt.Errorf("sqlite: load items: %w", err)
	}
	defer rows.Close()

	sheet.Items = []estimate.LineItem{}
	for rows.Next() {
		var (
			it              estimate.LineItem
			element         string
			slabType        int
			inputs, results string
		)
		if err := rows.Scan(&it.ID, &element, &it.Label, &slabType,
			&it.Quantities.VolumeM3, &it.Quantities.FormworkM2, &it.Quantities.SteelKg, &inputs, &results); err != nil {
			return sheet, fmt.Errorf("sqlite: scan item: %w", err)
		}
		it.Element = model.Element(element)
		it.SlabType = model.SlabType(slabType)
		if err := json.Unmarshal([]byte(inputs), &it.Inputs); err != nil {
			return sheet, fmt.Errorf("sqlite: decode inputs: %w", err)
		}
		if err := json.Unmarshal([]byte(results), &it.Results); err != nil {
			return sheet, fmt.Errorf("sqlite: decode results: %w", err)
		}
		sheet.Items = append(sheet.Items, it)
	}
	if err := rows.Err(); err != nil {
		return sheet, fmt.Errorf("sqlite: load items: %w", err)
	}
	return sheet, nil
}

// Delete removes an archived sheet and its items.
func (a *Archive) Delete(ctx context.Context, id string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM line_items WHERE estimate_id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: delete items: %w", err)
	}
	res, err := a.db.ExecContext(ctx, `DELETE FROM estimates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec     Record
		savedAt int64
		cost    string
	)
	if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &savedAt, &rec.Items,
		&rec.Quantities.VolumeM3, &rec.Quantities.FormworkM2, &rec.Quantities.SteelKg, &rec.Currency, &cost); err != nil {
		return rec, fmt.Errorf("sqlite: scan estimate: %w", err)
	}
	rec.SavedAt = time.Unix(0, savedAt).UTC()
	var err error
	if rec.Cost, err = decimal.NewFromString(cost); err != nil {
		return rec, fmt.Errorf("sqlite: cost %q: %w", cost, err)
	}
	return rec, nil
}

// Package edit commits cell edits, single or block, against both the record
// store and the in-memory grid, recording a bounded undo history.
//
// Commits are confirm-then-apply: the in-memory row changes only after the
// store accepts the write, so a failed call never corrupts grid state.
package edit

import (
	"context"
	"errors"
	"fmt"

	"sovgrid/internal/grid"
	"sovgrid/internal/store"
	"sovgrid/internal/value"
)

// DefaultUndoDepth bounds the undo stack when config doesn't say otherwise.
const DefaultUndoDepth = 50

// Change is one recorded field-level commit.
type Change struct {
	RowID    string
	Field    string
	OldValue any
	NewValue any
}

// Engine applies edits for a single grid instance. All store calls carry the
// organization id alongside the row id.
type Engine struct {
	store store.Store
	grid  *grid.Model
	orgID string
	undo  []Change
	depth int
}

// New returns an engine over st and g for one tenant.
func New(st store.Store, g *grid.Model, orgID string, undoDepth int) *Engine {
	if undoDepth < 1 {
		undoDepth = DefaultUndoDepth
	}
	return &Engine{store: st, grid: g, orgID: orgID, depth: undoDepth}
}

// UndoLen returns the number of undoable changes.
func (e *Engine) UndoLen() int { return len(e.undo) }

// CommitCell parses rawInput for the column, writes the field to the store
// scoped by row id and org id, and on success applies it in memory and
// records an undo entry.
func (e *Engine) CommitCell(ctx context.Context, rowID, columnKey, rawInput string) (Change, error) {
	idx := e.grid.Schema().Index(columnKey)
	if idx < 0 {
		return Change{}, fmt.Errorf("unknown column %q", columnKey)
	}
	col, _ := e.grid.Schema().Col(idx)
	row := e.grid.RowByID(rowID)
	if row == nil {
		return Change{}, fmt.Errorf("row %s no longer exists", rowID)
	}
	ch := Change{
		RowID:    rowID,
		Field:    columnKey,
		OldValue: row.Field(columnKey),
		NewValue: value.ParseInput(rawInput, col),
	}
	if err := e.store.Update(ctx, rowID, e.orgID, columnKey, ch.NewValue); err != nil {
		return Change{}, err
	}
	e.grid.ApplyField(rowID, columnKey, ch.NewValue)
	e.push(ch)
	return ch, nil
}

// CommitBlock applies a rectangular block of raw values anchored at start,
// in row-major order, one store call per cell. Cells landing beyond the
// current page's rows or the schema's columns are skipped silently; that is
// expected when pasting near the grid's edges. Each modified cell records
// its own undo entry. Returns the number of cells applied; per-cell store
// failures are joined into the returned error without stopping the block.
func (e *Engine) CommitBlock(ctx context.Context, start grid.CellRef, matrix [][]string) (int, error) {
	page := e.grid.View()
	ids := make([]string, len(page))
	for i, r := range page {
		ids[i] = r.ID
	}

	applied := 0
	var errs []error
	for ri, rowCells := range matrix {
		target := start.Row + ri
		if target < 0 || target >= len(ids) {
			continue
		}
		for ci, raw := range rowCells {
			colIdx := start.Col + ci
			if colIdx < 0 || colIdx >= e.grid.Schema().Len() {
				continue
			}
			col, _ := e.grid.Schema().Col(colIdx)
			if _, err := e.CommitCell(ctx, ids[target], col.Key, raw); err != nil {
				errs = append(errs, fmt.Errorf("row %d %s: %w", target+1, col.Key, err))
				continue
			}
			applied++
		}
	}
	return applied, errors.Join(errs...)
}

// Undo reverts the most recent change: it re-issues an org-scoped store
// update restoring the old value, and only on success removes the entry and
// updates the in-memory row. On store failure the entry stays so the user
// can retry. Returns false when the stack is empty (a no-op, not an error).
func (e *Engine) Undo(ctx context.Context) (Change, bool, error) {
	if len(e.undo) == 0 {
		return Change{}, false, nil
	}
	ch := e.undo[len(e.undo)-1]
	if err := e.store.Update(ctx, ch.RowID, e.orgID, ch.Field, ch.OldValue); err != nil {
		return ch, true, err
	}
	e.undo = e.undo[:len(e.undo)-1]
	e.grid.ApplyField(ch.RowID, ch.Field, ch.OldValue)
	return ch, true, nil
}

// push appends a change, evicting the oldest entry past the depth bound.
func (e *Engine) push(ch Change) {
	e.undo = append(e.undo, ch)
	if len(e.undo) > e.depth {
		e.undo = e.undo[len(e.undo)-e.depth:]
	}
}

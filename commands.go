package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/config"
	"sovgrid/internal/grid"
	"sovgrid/internal/schema"
	"sovgrid/internal/store"
)

// storeTimeout bounds every background store call. The backend is a local
// sqlite file so anything slower than this is a real fault.
const storeTimeout = 10 * time.Second

// ---------------------------------------------------------------------------
// Async store commands
// ---------------------------------------------------------------------------

func openStoreCmd(cfg config.Config, sch *schema.Schema) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		st, err := store.Open(cfg.Database.Path, sch)
		if err != nil {
			return storeReadyMsg{err: err}
		}
		if cfg.UI.SeedDemo {
			if err := st.SeedDemo(ctx, cfg.Tenant.OrgID, cfg.Tenant.ClientID); err != nil {
				return storeReadyMsg{err: err}
			}
		}
		recs, err := st.List(ctx, cfg.Tenant.OrgID, cfg.Tenant.ClientID)
		if err != nil {
			return storeReadyMsg{err: err}
		}
		return storeReadyMsg{st: st, rows: recordsToRows(recs)}
	}
}

func addRowCmd(st store.Store, orgID, clientID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		rec, err := st.InsertOne(ctx, orgID, clientID, map[string]any{})
		if err != nil {
			return rowsInsertedMsg{err: err}
		}
		return rowsInsertedMsg{rows: recordsToRows([]store.Record{rec})}
	}
}

func duplicateCmd(st store.Store, orgID, clientID string, payloads []map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		recs, err := st.InsertMany(ctx, orgID, clientID, payloads)
		if err != nil {
			return rowsInsertedMsg{err: err}
		}
		return rowsInsertedMsg{rows: recordsToRows(recs)}
	}
}

func bulkInsertCmd(st store.Store, orgID, clientID string, payloads []map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		recs, err := st.InsertMany(ctx, orgID, clientID, payloads)
		if err != nil {
			return rowsInsertedMsg{bulk: true, err: err}
		}
		return rowsInsertedMsg{bulk: true, rows: recordsToRows(recs)}
	}
}

func deleteCmd(st store.Store, orgID string, ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		if err := st.DeleteMany(ctx, ids, orgID); err != nil {
			return rowsDeletedMsg{err: err}
		}
		return rowsDeletedMsg{ids: ids}
	}
}

func recordsToRows(recs []store.Record) []grid.Row {
	rows := make([]grid.Row, len(recs))
	for i, r := range recs {
		rows[i] = grid.Row{ID: r.ID, Fields: r.Fields}
	}
	return rows
}

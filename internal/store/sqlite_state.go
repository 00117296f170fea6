package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pantry-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, storageErr("ensure dir", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, storageErr("open", err)
	}
	// Pragmas for multi-process local usage (entry TUI + management view or
	// web server sharing one store). WAL enables one writer + many readers.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, storageErr("pragma", err)
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS donors (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS favorites (
			identity TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS donations (
			id TEXT PRIMARY KEY,
			created_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_donations_created ON donations(created_at_unixms);`,
		`CREATE TABLE IF NOT EXISTS receipt_handoff (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return storageErr("migrate", err)
		}
	}
	return nil
}

func (s Store) loadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, err
	}
	if !hasState {
		// One-time import from the legacy data.json if present. Malformed
		// legacy data degrades to an empty store, never a fatal error.
		if b, err := os.ReadFile(s.legacyDataPath()); err == nil && len(b) > 0 {
			legacy := loadLegacyData(b)
			if !legacy.empty() {
				if err := s.saveSQLiteConn(ctx, db, legacy.toDB()); err != nil {
					return nil, err
				}
			}
		}
	}

	return loadStateFromSQLite(ctx, db)
}

func (s Store) saveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return s.saveSQLiteConn(ctx, db, st)
}

func (s Store) saveSQLiteConn(ctx context.Context, db *sql.DB, st *DB) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	version := st.Version
	if version == 0 {
		version = 1
	}
	metas := [][2]string{
		{"version", fmt.Sprintf("%d", version)},
		{"sort_mode", string(model.ParseSortMode(string(st.SortMode)))},
		{"favorites_pinned", boolToStr(st.FavoritesPinned)},
	}
	for _, kv := range metas {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return storageErr("write meta", err)
		}
	}

	// Replace-all per collection: simple and atomic from the caller's view.
	for _, t := range []string{"donors", "favorites", "donations"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return storageErr("clear "+t, err)
		}
	}

	for i, name := range st.Donors {
		if _, err := tx.ExecContext(ctx, `INSERT INTO donors(position, name) VALUES(?, ?)`, i, name); err != nil {
			return storageErr("write donor", err)
		}
	}
	for _, f := range st.Favorites {
		key := model.NormalizeDonor(f)
		if key == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO favorites(identity) VALUES(?)`, key); err != nil {
			return storageErr("write favorite", err)
		}
	}
	for i := range st.Donations {
		d := st.Donations[i]
		createdMs := int64(i) // preserves insertion order for unparsable legacy rows
		if ts, ok := d.When(); ok {
			createdMs = ts.UTC().UnixMilli()
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return storageErr("encode donation", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO donations(id, created_at_unixms, json) VALUES(?, ?, ?)`,
			d.ID, createdMs, string(raw)); err != nil {
			return storageErr("write donation", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	for _, q := range []string{
		`SELECT COUNT(1) FROM donors`,
		`SELECT COUNT(1) FROM donations`,
	} {
		var n int
		if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
			// Tables missing: treat as empty.
			return false, nil
		}
		if n > 0 {
			return true, nil
		}
	}
	// Meta rows count too: a store that saved prefs but holds no donors yet
	// should not be re-imported over.
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM state_meta`).Scan(&n); err == nil && n > 0 {
		return true, nil
	}
	return false, nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1, FavoritesPinned: true, SortMode: model.SortInsertionDesc}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("sort_mode"); v != "" {
		out.SortMode = model.ParseSortMode(v)
	}
	// Pinning defaults ON unless explicitly set off.
	if v := readMeta("favorites_pinned"); v != "" {
		out.FavoritesPinned = v == "true"
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM donors ORDER BY position`)
	if err != nil {
		return nil, storageErr("read donors", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("scan donor", err)
		}
		out.Donors = append(out.Donors, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read donors", err)
	}

	favRows, err := db.QueryContext(ctx, `SELECT identity FROM favorites ORDER BY identity`)
	if err != nil {
		return nil, storageErr("read favorites", err)
	}
	defer favRows.Close()
	for favRows.Next() {
		var id string
		if err := favRows.Scan(&id); err != nil {
			return nil, storageErr("scan favorite", err)
		}
		out.Favorites = append(out.Favorites, id)
	}
	if err := favRows.Err(); err != nil {
		return nil, storageErr("read favorites", err)
	}

	donRows, err := db.QueryContext(ctx, `SELECT json FROM donations ORDER BY created_at_unixms, rowid`)
	if err != nil {
		return nil, storageErr("read donations", err)
	}
	defer donRows.Close()
	for donRows.Next() {
		var js string
		if err := donRows.Scan(&js); err != nil {
			return nil, storageErr("scan donation", err)
		}
		var d model.Donation
		if err := json.Unmarshal([]byte(js), &d); err != nil {
			// A single corrupt row should not take the whole store down.
			continue
		}
		out.Donations = append(out.Donations, d)
	}
	if err := donRows.Err(); err != nil {
		return nil, storageErr("read donations", err)
	}

	if out.Donors == nil {
		out.Donors = []string{}
	}
	if out.Favorites == nil {
		out.Favorites = []string{}
	}
	if out.Donations == nil {
		out.Donations = []model.Donation{}
	}
	return out, nil
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func nowUnixMilli() int64 {
	return time.Now().UTC().UnixMilli()
}

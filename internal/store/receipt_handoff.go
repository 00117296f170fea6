package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"pantry-cli/internal/model"

	"github.com/google/uuid"
)

const receiptFallbackFileName = "receipt_last.json"

// Handoff rows older than this are pruned; the payload is meant to cross
// from the submitting view to the receipt view, not to live in the store.
const receiptHandoffTTL = time.Hour

// PutReceipt stages a donation for the receipt view under a fresh key and
// keeps a fallback copy for re-rendering after the keyed payload is consumed.
func (s Store) PutReceipt(d model.Donation) (string, error) {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	raw, err := json.Marshal(d)
	if err != nil {
		return "", storageErr("encode receipt", err)
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx, `INSERT INTO receipt_handoff(id, json, created_at_unixms) VALUES(?, ?, ?)`,
		id, string(raw), nowUnixMilli()); err != nil {
		return "", storageErr("write receipt", err)
	}
	cutoff := time.Now().Add(-receiptHandoffTTL).UTC().UnixMilli()
	_, _ = db.ExecContext(ctx, `DELETE FROM receipt_handoff WHERE created_at_unixms < ?`, cutoff)

	// Best-effort fallback copy; losing it only costs a refresh.
	_ = atomicWriteFile(s.Dir, receiptFallbackFileName+".*.tmp", filepath.Join(s.Dir, receiptFallbackFileName), raw, 0o644)

	return id, nil
}

// TakeReceipt consumes the payload for id: the keyed row is deleted on read.
// When the key is gone (already consumed, pruned, or unknown) the fallback
// copy is returned instead, if one exists.
func (s Store) TakeReceipt(id string) (model.Donation, bool, error) {
	ctx := context.Background()
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Donation{}, false, err
	}
	defer db.Close()

	var js string
	err = db.QueryRowContext(ctx, `SELECT json FROM receipt_handoff WHERE id = ?`, id).Scan(&js)
	if err == nil {
		_, _ = db.ExecContext(ctx, `DELETE FROM receipt_handoff WHERE id = ?`, id)
		var d model.Donation
		if jsonErr := json.Unmarshal([]byte(js), &d); jsonErr == nil {
			return d, true, nil
		}
	}
	return s.lastReceipt()
}

// LastReceipt returns the fallback copy without consuming anything.
func (s Store) LastReceipt() (model.Donation, bool, error) {
	return s.lastReceipt()
}

func (s Store) lastReceipt() (model.Donation, bool, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, receiptFallbackFileName))
	if err != nil {
		return model.Donation{}, false, nil
	}
	var d model.Donation
	if err := json.Unmarshal(b, &d); err != nil {
		return model.Donation{}, false, nil
	}
	return d, true, nil
}

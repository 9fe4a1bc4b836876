package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/verification-api/internal/domain"
	"github.com/verification-api/internal/pkg/id"
)

// keyPrefix namespaces verification keys inside the database, the logical
// equivalent of a table name.
const keyPrefix = "verification:"

// VerificationRepo provides typed Badger operations for verification records.
// Keys are the prefixed robloxUsername bytes (exact, case-sensitive); values
// are JSON-encoded VerificationRecords. Every method runs as a single Badger
// transaction, so conflicting writes to the same username serialize inside
// the storage engine.
type VerificationRepo struct {
	db *badger.DB
}

func NewVerificationRepo(db *badger.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

func recordKey(robloxUsername string) []byte {
	return []byte(keyPrefix + robloxUsername)
}

// Put inserts or replaces the record for rec.RobloxUsername. On replace the
// existing RecordID and CreatedAt survive; on insert a fresh ULID and the
// current time are assigned. rec is updated in place. Neither path is an
// error.
func (r *VerificationRepo) Put(ctx context.Context, rec *domain.VerificationRecord) error {
	return r.db.Update(func(txn *badger.Txn) error {
		k := recordKey(rec.RobloxUsername)
		switch item, err := txn.Get(k); {
		case err == nil:
			var prev domain.VerificationRecord
			if dErr := item.Value(func(val []byte) error { return json.Unmarshal(val, &prev) }); dErr != nil {
				return fmt.Errorf("decode existing record: %w", dErr)
			}
			rec.RecordID = prev.RecordID
			rec.CreatedAt = prev.CreatedAt
		case errors.Is(err, badger.ErrKeyNotFound):
			rec.RecordID = id.New()
			rec.CreatedAt = time.Now().UTC()
		default:
			return fmt.Errorf("read record for upsert: %w", err)
		}

		buf, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		return txn.Set(k, buf)
	})
}

// UpdateJoinedGame mutates only the joinedGame flag of an existing record
// and returns the updated record. Fails with domain.ErrNotFound if no record
// exists for the username.
func (r *VerificationRepo) UpdateJoinedGame(ctx context.Context, robloxUsername string, joined bool) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.Update(func(txn *badger.Txn) error {
		k := recordKey(robloxUsername)
		item, err := txn.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("verification for %q: %w", robloxUsername, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if dErr := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); dErr != nil {
			return fmt.Errorf("decode record: %w", dErr)
		}

		rec.JoinedGame = joined
		buf, mErr := json.Marshal(&rec)
		if mErr != nil {
			return fmt.Errorf("marshal record: %w", mErr)
		}
		return txn.Set(k, buf)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get returns the record for robloxUsername, or domain.ErrNotFound. Read
// only; expiry is the caller's concern.
func (r *VerificationRepo) Get(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error) {
	var rec domain.VerificationRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(robloxUsername))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("verification for %q: %w", robloxUsername, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		// Copy the value out inside the transaction; item values are
		// undefined behavior once the transaction ends.
		return item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) })
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes the record for robloxUsername. A second delete of the same
// username reports domain.ErrNotFound rather than succeeding silently.
func (r *VerificationRepo) Delete(ctx context.Context, robloxUsername string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		k := recordKey(robloxUsername)
		if _, err := txn.Get(k); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("verification for %q: %w", robloxUsername, domain.ErrNotFound)
		} else if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		return txn.Delete(k)
	})
}

// RunGC performs one value-log garbage collection pass. This reclaims space
// from deleted records only; it never removes a live record, expired or not.
func (r *VerificationRepo) RunGC() error {
	err := r.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		// Nothing worth rewriting this round.
		return nil
	}
	return err
}

// Close tears down the database. Callers should defer this at startup.
func (r *VerificationRepo) Close() error {
	return r.db.Close()
}

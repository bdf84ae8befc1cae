// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package storage persists behavior events beyond the in-memory caps.
//
// The Archive is a write-behind mirror of the behavior log backed by
// Badger. The live recommendation path never reads from it; it exists so
// history survives restarts and stays available for offline analysis after
// the bounded in-memory lists have trimmed it.
package storage

import (
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/motormatch/motormatch/internal/behavior"
)

// Key prefixes per event kind. Keys embed a nanosecond timestamp so a
// prefix scan yields chronological order.
const (
	prefixView     = "view:"
	prefixSearch   = "search:"
	prefixWishlist = "wishlist:"
	prefixCompare  = "compare:"
)

// Options configures the archive.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the archive in RAM, for tests and ephemeral runs.
	InMemory bool
}

// Archive is a durable, append-only store of behavior events.
type Archive struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens or creates the archive.
func Open(opts Options, logger zerolog.Logger) (*Archive, error) {
	logger = logger.With().Str("component", "storage").Logger()

	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying store.
func (a *Archive) Close() error {
	return a.db.Close()
}

// ArchiveView persists a view event.
func (a *Archive) ArchiveView(ev behavior.ViewEvent) error {
	return a.put(prefixView, ev.Timestamp, ev.VehicleID, ev)
}

// ArchiveSearch persists a search event.
func (a *Archive) ArchiveSearch(ev behavior.SearchEvent) error {
	return a.put(prefixSearch, ev.Timestamp, ev.ID, ev)
}

// ArchiveWishlist persists a wishlist event.
func (a *Archive) ArchiveWishlist(ev behavior.WishlistEvent) error {
	return a.put(prefixWishlist, ev.Timestamp, ev.VehicleID, ev)
}

// ArchiveCompare persists a compare event.
func (a *Archive) ArchiveCompare(ev behavior.CompareEvent) error {
	key := "compare"
	if len(ev.VehicleIDs) > 0 {
		key = ev.VehicleIDs[0]
	}
	return a.put(prefixCompare, ev.Timestamp, key, ev)
}

// Views returns up to limit archived view events, newest first.
func (a *Archive) Views(limit int) ([]behavior.ViewEvent, error) {
	var out []behavior.ViewEvent
	err := a.scan(prefixView, limit, func(val []byte) error {
		var ev behavior.ViewEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	return out, err
}

// Searches returns up to limit archived search events, newest first.
func (a *Archive) Searches(limit int) ([]behavior.SearchEvent, error) {
	var out []behavior.SearchEvent
	err := a.scan(prefixSearch, limit, func(val []byte) error {
		var ev behavior.SearchEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		out = append(out, ev)
		return nil
	})
	return out, err
}

func (a *Archive) put(prefix string, ts time.Time, id string, v any) error {
	if ts.IsZero() {
		ts = time.Now()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	key := fmt.Sprintf("%s%020d:%s", prefix, ts.UnixNano(), id)

	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("archive event: %w", err)
	}
	return nil
}

// scan walks a prefix in reverse key order, newest events first.
func (a *Archive) scan(prefix string, limit int, fn func(val []byte) error) error {
	return a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last possible key under the
		// prefix. 0xff sorts after any timestamp digit.
		seek := append([]byte(prefix), 0xff)
		count := 0
		for it.Seek(seek); it.Valid(); it.Next() {
			if limit > 0 && count >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				return fn(val)
			})
			if err != nil {
				return err
			}
			count++
		}
		return nil
	})
}

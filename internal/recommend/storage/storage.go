// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

// Package storage persists trained recommendation models in BadgerDB so a
// restart against an unchanged corpus skips retraining. Payloads are
// gob-encoded, gzip-compressed, and checksummed; a fingerprint mismatch or
// corrupt payload is reported as a miss, never as fatal.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/logging"
)

// ErrChecksumMismatch indicates a stored payload failed integrity
// verification.
var ErrChecksumMismatch = errors.New("model payload checksum mismatch")

const (
	metaSuffix    = ":meta"
	payloadSuffix = ":payload"
)

// Metadata describes one stored model artifact.
type Metadata struct {
	Name        string
	Fingerprint string
	Checksum    string
	SavedAt     time.Time
	PayloadSize int
}

// Store is a BadgerDB-backed model artifact store.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the store at dir.
func Open(dir string) (*Store, error) {
	logger := logging.With().Str("component", "modelstore").Logger()
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithCompactL0OnClose(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model store at %s: %w", dir, err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveModel stores value under name, tagged with the corpus fingerprint it
// was trained from. Any previous artifact under the same name is replaced.
func (s *Store) SaveModel(ctx context.Context, name, fingerprint string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var raw bytes.Buffer
	gz := gzip.NewWriter(&raw)
	if err := gob.NewEncoder(gz).Encode(value); err != nil {
		return fmt.Errorf("encode model %s: %w", name, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress model %s: %w", name, err)
	}
	payload := raw.Bytes()
	sum := sha256.Sum256(payload)

	meta := Metadata{
		Name:        name,
		Fingerprint: fingerprint,
		Checksum:    hex.EncodeToString(sum[:]),
		SavedAt:     time.Now(),
		PayloadSize: len(payload),
	}
	var metaBuf bytes.Buffer
	if err := gob.NewEncoder(&metaBuf).Encode(meta); err != nil {
		return fmt.Errorf("encode metadata %s: %w", name, err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(name+metaSuffix), metaBuf.Bytes()); err != nil {
			return err
		}
		return txn.Set([]byte(name+payloadSuffix), payload)
	})
	if err != nil {
		return fmt.Errorf("store model %s: %w", name, err)
	}

	s.logger.Debug().
		Str("name", name).
		Str("fingerprint", shortFingerprint(fingerprint)).
		Int("bytes", len(payload)).
		Msg("Model artifact stored")
	return nil
}

// LoadModel retrieves the artifact stored under name into out, but only when
// its fingerprint matches. Returns false on miss or fingerprint mismatch;
// corruption is returned as an error so callers can log and retrain.
func (s *Store) LoadModel(ctx context.Context, name, fingerprint string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var meta Metadata
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name + metaSuffix))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&meta)
		}); err != nil {
			return err
		}
		item, err = txn.Get([]byte(name + payloadSuffix))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load model %s: %w", name, err)
	}

	if meta.Fingerprint != fingerprint {
		s.logger.Debug().
			Str("name", name).
			Str("stored", shortFingerprint(meta.Fingerprint)).
			Str("wanted", shortFingerprint(fingerprint)).
			Msg("Stored model fingerprint stale")
		return false, nil
	}

	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != meta.Checksum {
		return false, fmt.Errorf("load model %s: %w", name, ErrChecksumMismatch)
	}

	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("decompress model %s: %w", name, err)
	}
	defer gz.Close()
	if err := gob.NewDecoder(gz).Decode(out); err != nil {
		return false, fmt.Errorf("decode model %s: %w", name, err)
	}
	if _, err := io.Copy(io.Discard, gz); err != nil {
		return false, fmt.Errorf("drain model %s: %w", name, err)
	}
	return true, nil
}

// DeleteModel removes the artifact stored under name. Missing artifacts are
// not an error.
func (s *Store) DeleteModel(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(name + metaSuffix)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Delete([]byte(name + payloadSuffix)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete model %s: %w", name, err)
	}
	return nil
}

// Stat returns the metadata of the artifact stored under name.
func (s *Store) Stat(ctx context.Context, name string) (Metadata, bool, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, false, err
	}
	var meta Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name + metaSuffix))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&meta)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Metadata{}, false, nil
	}
	if err != nil {
		return Metadata{}, false, fmt.Errorf("stat model %s: %w", name, err)
	}
	return meta, true, nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

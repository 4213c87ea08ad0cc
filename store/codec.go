// Package store persists Q-tables. Every backend stores the same encoded
// blob: a gob stream holding a header followed by the table entries.
package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
)

const (
	Magic   = "PACQ"
	Version = 1
)

var (
	// ErrNotFound is returned when there is nothing saved under a name
	ErrNotFound = errors.New("store: policy not found")
	// ErrCorrupt is returned for data that is not a readable policy
	ErrCorrupt = errors.New("store: corrupt policy data")
	// ErrIncompatible is returned for policies written with another
	// format version or state shape
	ErrIncompatible = errors.New("store: incompatible policy format")
)

// Store saves and restores tables by name. Load replaces the contents of
// the given table only on success.
type Store interface {
	Save(ctx context.Context, name string, table *policies.QTable) error
	Load(ctx context.Context, name string, table *policies.QTable) error
}

type header struct {
	Magic   string
	Version int
	Ghosts  int
	Entries int
}

// Entry is one persisted (state, action, value) triple.
type Entry struct {
	State  pacman.State
	Action pacman.Action
	Value  float64
}

// Encode writes table to w.
func Encode(w io.Writer, table *policies.QTable) error {
	entries := make([]Entry, 0, table.Len())
	table.Range(func(k policies.StateAction, v float64) bool {
		entries = append(entries, Entry{State: k.State, Action: k.Action, Value: v})
		return true
	})
	enc := gob.NewEncoder(w)
	h := header{Magic: Magic, Version: Version, Ghosts: pacman.NumGhosts, Entries: len(entries)}
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	return nil
}

// Decode reads a table written by Encode.
func Decode(r io.Reader) (*policies.QTable, error) {
	dec := gob.NewDecoder(r)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrIncompatible, h.Version, Version)
	}
	if h.Ghosts != pacman.NumGhosts {
		return nil, fmt.Errorf("%w: %d ghost slots, want %d", ErrIncompatible, h.Ghosts, pacman.NumGhosts)
	}
	entries := make([]Entry, 0)
	if h.Entries > 0 {
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("%w: entries: %v", ErrCorrupt, err)
		}
	} else if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: entries: %v", ErrCorrupt, err)
	}
	if len(entries) != h.Entries {
		return nil, fmt.Errorf("%w: %d entries, header says %d", ErrCorrupt, len(entries), h.Entries)
	}

	table := policies.NewQTable()
	for _, e := range entries {
		table.Set(e.State, e.Action, e.Value)
	}
	return table, nil
}

func Marshal(table *policies.QTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into table, leaving it untouched on error.
func Unmarshal(data []byte, table *policies.QTable) error {
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	table.Replace(decoded)
	return nil
}

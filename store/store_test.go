package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
)

func sampleTable() *policies.QTable {
	table := policies.NewQTable()
	s1 := pacman.State{
		Node:   pacman.Point{X: 16, Y: 32},
		Pellet: pacman.Placeholder,
		Modes:  [pacman.NumGhosts]pacman.GhostMode{pacman.Scatter, pacman.Chase, pacman.Freight, pacman.Spawn},
		Ghosts: [pacman.NumGhosts]pacman.Point{{X: 1, Y: 2}, pacman.Placeholder, {X: 3, Y: 4}, pacman.Placeholder},
	}
	s2 := s1
	s2.Node = pacman.Point{X: 48, Y: 32}
	table.Set(s1, pacman.Left, 0.1)
	table.Set(s1, pacman.Right, -12.345678901234567)
	table.Set(s2, pacman.Up, 1e-300)
	table.Set(s2, pacman.Stop, 0)
	return table
}

func assertSameTable(t *testing.T, want, got *policies.QTable) {
	t.Helper()
	if want.Len() != got.Len() {
		t.Fatalf("len = %d, want %d", got.Len(), want.Len())
	}
	want.Range(func(k policies.StateAction, v float64) bool {
		if !got.Has(k.State, k.Action) {
			t.Errorf("missing %v %v", k.State, k.Action)
			return true
		}
		if g := got.Get(k.State, k.Action); g != v {
			t.Errorf("value of %v %v = %v, want %v", k.State, k.Action, g, v)
		}
		return true
	})
}

func TestCodecRoundTrip(t *testing.T) {
	table := sampleTable()
	data, err := Marshal(table)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := policies.NewQTable()
	if err := Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	assertSameTable(t, table, got)
}

func TestCodecEmptyTable(t *testing.T) {
	data, err := Marshal(policies.NewQTable())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := sampleTable()
	if err := Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("len = %d, want 0", got.Len())
	}
}

func encodeHeader(t *testing.T, h header) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(h); err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode([]Entry{}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCodecErrors(t *testing.T) {
	valid, _ := Marshal(sampleTable())
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"garbage", []byte("not a policy"), ErrCorrupt},
		{"empty", nil, ErrCorrupt},
		{"truncated", valid[:len(valid)/2], ErrCorrupt},
		{"bad magic", encodeHeader(t, header{Magic: "NOPE", Version: Version, Ghosts: pacman.NumGhosts}), ErrCorrupt},
		{"version", encodeHeader(t, header{Magic: Magic, Version: Version + 1, Ghosts: pacman.NumGhosts}), ErrIncompatible},
		{"ghosts", encodeHeader(t, header{Magic: Magic, Version: Version, Ghosts: 2}), ErrIncompatible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := sampleTable()
			err := Unmarshal(tt.data, table)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if table.Len() != 4 {
				t.Errorf("table modified on error, len = %d", table.Len())
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore()
	path := filepath.Join(t.TempDir(), "policies", "agent.qtable")

	t.Run("missing", func(t *testing.T) {
		err := s.Load(ctx, path, policies.NewQTable())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		table := sampleTable()
		if err := s.Save(ctx, path, table); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got := policies.NewQTable()
		if err := s.Load(ctx, path, got); err != nil {
			t.Fatalf("Load: %v", err)
		}
		assertSameTable(t, table, got)

		leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
		if len(leftovers) != 0 {
			t.Errorf("temporary files left behind: %v", leftovers)
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.qtable")
		if err := os.WriteFile(bad, []byte{0x01, 0x02, 0x03}, 0644); err != nil {
			t.Fatal(err)
		}
		err := s.Load(ctx, bad, policies.NewQTable())
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("err = %v, want ErrCorrupt", err)
		}
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewRedisStore(DefaultRedisConfig(), WithAddress(mr.Addr()), WithKeyPrefix("test:"))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	if err := s.Load(ctx, "agent", policies.NewQTable()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	table := sampleTable()
	if err := s.Save(ctx, "agent", table); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("test:policy:agent") {
		t.Fatal("policy key not written")
	}
	got := policies.NewQTable()
	if err := s.Load(ctx, "agent", got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameTable(t, table, got)

	if err := mr.Set("test:policy:broken", "junk"); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(ctx, "broken", policies.NewQTable()); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestRedisStoreConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := DefaultRedisConfig()
	cfg.Address = addr
	if _, err := NewRedisStore(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("err = %v, want ErrConnectionFailed", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "policies.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	if err := s.Load(ctx, "agent", policies.NewQTable()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, "agent", policies.NewQTable()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	table := sampleTable()
	if err := s.Save(ctx, "agent", table); err != nil {
		t.Fatalf("Save over existing: %v", err)
	}
	got := policies.NewQTable()
	if err := s.Load(ctx, "agent", got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameTable(t, table, got)

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "agent" || infos[0].Entries != 4 || infos[0].Version != Version {
		t.Errorf("infos = %+v", infos)
	}
}

type memoryStore struct {
	saves map[string]int
	err   error
}

func (m *memoryStore) Save(_ context.Context, name string, _ *policies.QTable) error {
	if m.err != nil {
		return m.err
	}
	m.saves[name]++
	return nil
}

func (m *memoryStore) Load(context.Context, string, *policies.QTable) error {
	return ErrNotFound
}

func TestCheckpointer(t *testing.T) {
	ctx := context.Background()
	mem := &memoryStore{saves: make(map[string]int)}
	c := NewCheckpointer(mem, "agent", 3)
	table := sampleTable()
	for episode := 1; episode <= 10; episode++ {
		if err := c.Checkpoint(ctx, episode, table); err != nil {
			t.Fatalf("Checkpoint: %v", err)
		}
	}
	if mem.saves["agent"] != 3 || c.Saved() != 3 {
		t.Errorf("saves = %d, saved = %d, want 3", mem.saves["agent"], c.Saved())
	}

	mem.err = errors.New("disk full")
	if err := c.Checkpoint(ctx, 12, table); !errors.Is(err, mem.err) {
		t.Errorf("err = %v, want wrapped store error", err)
	}

	disabled := NewCheckpointer(mem, "off", 0)
	if err := disabled.Checkpoint(ctx, 5, table); err != nil || mem.saves["off"] != 0 {
		t.Error("disabled checkpointer saved")
	}
}

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/util"
)

// FileStore keeps each policy in its own file. Names are file paths.
type FileStore struct{}

var _ Store = FileStore{}

func NewFileStore() FileStore {
	return FileStore{}
}

// Save writes to a temporary file next to path and renames it into place,
// so a crash never leaves a half written policy behind.
func (FileStore) Save(ctx context.Context, path string, table *policies.QTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := util.EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, table); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func (FileStore) Load(ctx context.Context, path string, table *policies.QTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return err
	}
	defer f.Close()

	decoded, err := Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	table.Replace(decoded)
	return nil
}

package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/spf13/afero"
)

type fsStore struct {
	fs afero.Fs
}

// NewFSStore stores assets on fs. References are slash-separated paths
// relative to the root of fs; wrap an OS filesystem with afero.NewBasePathFs
// to pin the data directory.
func NewFSStore(fs afero.Fs) Store {
	return &fsStore{fs: fs}
}

func (s *fsStore) Put(_ context.Context, name string, r io.Reader) (string, error) {
	ref, err := cleanName(name)
	if err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(path.Dir(ref), 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}

	f, err := s.fs.Create(ref)
	if err != nil {
		return "", fmt.Errorf("create asset %s: %w", ref, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write asset %s: %w", ref, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close asset %s: %w", ref, err)
	}
	return ref, nil
}

func (s *fsStore) Open(_ context.Context, ref string) ([]byte, error) {
	name, err := cleanName(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	data, err := afero.ReadFile(s.fs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", ref, err)
	}
	return data, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Saver is the host's "save these bytes as a named file" action.
type Saver interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DirSaver saves files into Dir, creating it when missing. Each save goes
// through a temporary file that is closed, and renamed or removed, before
// Save returns.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if _, err := os.Stat(s.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	_, err = io.Copy(tmp, contextReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	path := filepath.Join(s.Dir, name)
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("setting mode on %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return path, nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// FSOption configures an FS fetcher.
type FSOption func(*FS)

// WithFSMaxSize limits the size of a single resource file.
// Default: DefaultMaxSize.
func WithFSMaxSize(n int64) FSOption {
	return func(f *FS) {
		f.maxSize = n
	}
}

// FS fetches resources from an fs.FS.
// The root must contain locale directories directly.
//
// Example structure:
//
//	en-US/main.ftl
//	en-US/errors.ftl
//	pl/main.ftl
type FS struct {
	fsys    fs.FS
	maxSize int64
}

// NewFS returns a fetcher reading "{locale}/{resourceID}" files from fsys.
// Works with os.DirFS, embed.FS and testing/fstest.MapFS.
func NewFS(fsys fs.FS, opts ...FSOption) *FS {
	f := &FS{fsys: fsys, maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch reads the resource file.
func (f *FS) Fetch(ctx context.Context, resourceID, locale string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := Path(resourceID, locale)
	if err != nil {
		return "", err
	}

	file, err := f.fsys.Open(p)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: %s", ErrNotFound, p)
		case errors.Is(err, fs.ErrPermission):
			return "", fmt.Errorf("%w: %s", ErrAccessDenied, p)
		}
		return "", fmt.Errorf("%w: reading %q: %w", ErrFetchFailed, p, err)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, p)
	}

	src, err := readLimited(file, f.maxSize)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return "", fmt.Errorf("%w: %s", ErrTooLarge, p)
		}
		return "", fmt.Errorf("%w: reading %q: %w", ErrFetchFailed, p, err)
	}
	return src, nil
}

// Locales lists the locale directories at the root of the filesystem.
func (f *FS) Locales() ([]string, error) {
	entries, err := fs.ReadDir(f.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing locales: %w", err)
	}
	var locales []string
	for _, e := range entries {
		if e.IsDir() {
			locales = append(locales, e.Name())
		}
	}
	return locales, nil
}

var _ Fetcher = (*FS)(nil)

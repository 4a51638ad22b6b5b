package resource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// DefaultMaxSize is the default limit for a single resource, 1 MiB.
const DefaultMaxSize = 1 << 20

// Fetcher loads the FTL source of one resource for one locale.
//
// Implementations must be safe for concurrent use. A missing resource is
// reported with an error matching ErrNotFound.
type Fetcher interface {
	Fetch(ctx context.Context, resourceID, locale string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, resourceID, locale string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, resourceID, locale string) (string, error) {
	return f(ctx, resourceID, locale)
}

// Path returns the slash-separated location of a resource: "{locale}/{resourceID}".
// Locales must be a single path segment and resource ids must not leave the
// locale directory.
func Path(resourceID, locale string) (string, error) {
	if locale == "" || strings.ContainsAny(locale, `/\`) || locale == "." || locale == ".." {
		return "", fmt.Errorf("%w: locale %q", ErrInvalidPath, locale)
	}
	p := locale + "/" + resourceID
	if resourceID == "" || strings.Contains(resourceID, `\`) || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: resource %q", ErrInvalidPath, resourceID)
	}
	return p, nil
}

// readLimited reads r up to limit bytes, failing with ErrTooLarge past it.
func readLimited(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}
	return string(data), nil
}

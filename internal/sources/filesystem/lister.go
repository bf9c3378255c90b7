// Package filesystem provides a source that completes path fragments
// against the entries of a directory.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// Ensure Lister implements the interface.
var _ driven.Source = (*Lister)(nil)

// Lister lists the parent directory of the word being completed.
//
// The word is split into a directory part and a filename fragment. An empty
// directory part means the working directory, a relative one is resolved
// against it. Entries whose name starts with the fragment are returned by
// name, relative to the listed directory. Dot entries are skipped unless the
// fragment itself starts with a dot.
type Lister struct {
	cwd    string
	logger *zap.Logger
}

// New creates a lister. cwd is used when a request carries no working
// directory; when both are empty the process working directory is used.
func New(cwd string, logger *zap.Logger) *Lister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lister{cwd: cwd, logger: logger}
}

// Produce implements driven.Source. A directory that cannot be read yields
// no entries and no error.
func (l *Lister) Produce(ctx context.Context, mc domain.MatchContext) ([]domain.Entry, error) {
	dir, fragment := l.resolve(mc)

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		l.logger.Debug("directory not listed",
			zap.String("dir", dir),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrIOFailure, err)))
		return nil, nil
	}

	showHidden := strings.HasPrefix(fragment, ".")
	entries := make([]domain.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := de.Name()
		if !strings.HasPrefix(name, fragment) {
			continue
		}
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, domain.NewEntry(name))
	}
	return entries, nil
}

// resolve returns the directory to list and the filename fragment to filter by.
func (l *Lister) resolve(mc domain.MatchContext) (dir, fragment string) {
	cwd := mc.Cwd
	if cwd == "" {
		cwd = l.cwd
	}
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	dir, fragment = filepath.Split(mc.Word)
	switch {
	case dir == "":
		dir = cwd
	case dir == "~/" || strings.HasPrefix(dir, "~"+string(filepath.Separator)):
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	case !filepath.IsAbs(dir):
		dir = filepath.Join(cwd, dir)
	}
	return dir, fragment
}

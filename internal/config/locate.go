package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eduardofuncao/sqlhelp/internal/logger"
)

// DefaultFileName is the name of the profile document searched for by Locate.
const DefaultFileName = "config.db.json"

// ErrNotFound is matched by the error Locate returns when no profile document exists.
var ErrNotFound = errors.New("config file not found")

// NotFoundError names the failed lookup.
type NotFoundError struct {
	FileName string
	Start    string
	Probed   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in %s or any of its %d parent directories", e.FileName, e.Start, e.Probed-1)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SearchPolicy controls the upward search.
// MaxDepth <= 0 walks up to and including the filesystem root.
type SearchPolicy struct {
	FileName string
	MaxDepth int
}

func (p SearchPolicy) fileName() string {
	if p.FileName == "" {
		return DefaultFileName
	}
	return p.FileName
}

// Location is where Locate found the document and how many parent hops it took.
type Location struct {
	Path  string
	Steps int
}

// Locate checks start and each of its parents for the policy's file name.
// When start is an existing regular file the search begins in its directory.
func Locate(start string, policy SearchPolicy) (Location, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return Location{}, fmt.Errorf("resolve start path %q: %w", start, err)
	}
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	name := policy.fileName()
	origin := current
	steps := 0

	for {
		candidate := filepath.Join(current, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			logger.Debug("config file located", "path", candidate, "steps", steps)
			return Location{Path: candidate, Steps: steps}, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		if policy.MaxDepth > 0 && steps >= policy.MaxDepth {
			break
		}
		current = parent
		steps++
	}

	logger.Warn("config file not found", "file", name, "start", origin, "checked", steps+1)
	return Location{}, &NotFoundError{FileName: name, Start: origin, Probed: steps + 1}
}

// Package mandate loads the static instructional text prepended to every
// prompt for a given agent role. Mandates are read once, at agent
// construction; a missing mandate is an error, never substituted with
// fallback text.
package mandate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"advisor-agent/internal/integrations/paramstore"
)

// Loader resolves the mandate text for an agent role.
type Loader interface {
	LoadMandate(ctx context.Context, role string) (string, error)
}

// ParamStore serves mandates from SSM parameters named
// <prefix>/mandates/<role>.
type ParamStore struct {
	params paramstore.Getter
	prefix string
}

// NewParamStore creates an SSM-backed mandate store.
func NewParamStore(params paramstore.Getter, prefix string) (*ParamStore, error) {
	if params == nil {
		return nil, errors.New("mandate: param getter must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("mandate: parameter prefix must not be empty")
	}
	return &ParamStore{params: params, prefix: prefix}, nil
}

func (s *ParamStore) LoadMandate(ctx context.Context, role string) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return "", errors.New("mandate: role must not be empty")
	}
	text, err := s.params.GetParameter(ctx, s.prefix+"/mandates/"+role)
	if err != nil {
		return "", fmt.Errorf("mandate: load %q: %w", role, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("mandate: mandate for %q is empty", role)
	}
	return text, nil
}

// FileStore serves mandates from <dir>/<role>_mandate.txt. Used by the local
// entrypoint so mandates can be edited without touching SSM.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed mandate store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("mandate: directory must not be empty")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadMandate(_ context.Context, role string) (string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return "", errors.New("mandate: role must not be empty")
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, role+"_mandate.txt"))
	if err != nil {
		return "", fmt.Errorf("mandate: load %q: %w", role, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", fmt.Errorf("mandate: mandate for %q is empty", role)
	}
	return string(raw), nil
}

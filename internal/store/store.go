// Package store owns the per-workspace local state: the panel-state JSON
// (last view, collapsed sections) and the sqlite cache (last API snapshot,
// origin ledger). Nothing here is a source of truth; the backend is.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	Dir string
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pauta"), nil
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return "", fmt.Errorf("workspace name %q: only [a-z0-9-_] allowed", name)
	}
	return name, nil
}

// WorkspaceDir resolves (and implies) ~/.pauta/workspaces/<name>.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	cfg, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "workspaces", name), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

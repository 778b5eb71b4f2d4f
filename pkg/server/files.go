package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned by ConfinedDir for names that escape the root
var ErrOutsideRoot = errors.New("path escapes root directory")

// FileReader reads whole files by slash-separated name
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Dir reads files relative to a directory on the local filesystem.
// Names containing ".." are resolved as-is and may leave the directory.
type Dir string

// ReadFile reads name relative to d
func (d Dir) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(d.join(name))
}

func (d Dir) join(name string) string {
	root := string(d)
	if root == "" {
		root = "."
	}
	return filepath.Join(root, filepath.FromSlash(name))
}

// ConfinedDir is a Dir that refuses names resolving outside of it
type ConfinedDir string

// ReadFile reads name relative to d, or fails with ErrOutsideRoot
func (d ConfinedDir) ReadFile(name string) ([]byte, error) {
	dir := Dir(d)
	target := dir.join(name)

	rel, err := filepath.Rel(dir.join(""), target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, ErrOutsideRoot
	}
	return os.ReadFile(target)
}

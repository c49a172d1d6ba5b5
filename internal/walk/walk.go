// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package walk enumerates files and directories under a root. Every stage of
// the pipeline discovers its inputs through this package.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrRootNotFound reports that the directory a run targets does not exist.
var ErrRootNotFound = errors.New("directory not found")

// Exists returns nil when root is an existing directory. Otherwise it
// returns an error wrapping ErrRootNotFound.
func Exists(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("checking %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}
	return nil
}

// skipUnreadable decides how a walk continues after err. Only a failure on
// root itself ends the walk; an unreadable directory below it is skipped and
// the rest of the tree is still visited.
func skipUnreadable(root, path string, d fs.DirEntry, err error) error {
	if path == root {
		return err
	}
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}

// FindByExt returns every regular file under root whose name ends with ext.
// Files whose base name equals exclude are left out; an empty exclude keeps
// everything. Unreadable subdirectories are skipped. Results come back in
// traversal order.
func FindByExt(root, ext, exclude string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(root, path, d, err)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ext) {
			return nil
		}
		if exclude != "" && name == exclude {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// Dirs returns every directory strictly below root, deepest first, so that
// children always precede their parents. An unreadable directory is listed
// but not descended into.
func Dirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return skipUnreadable(root, path, d, err)
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	// WalkDir visits parents before children; reversing gives bottom-up order.
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs, nil
}

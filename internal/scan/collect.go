package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Collect expands roots into the list of files to fingerprint. Directories
// are walked recursively and only files with a configured extension are
// kept; hidden directories are skipped. A root that names a file directly
// is always kept. Directory roots that are symlinks are resolved before
// walking, so their files are reported under the link target. The result
// is absolute, deduplicated and sorted.
func (s *Scanner) Collect(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		// WalkDir does not descend a symlinked root.
		dir, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		if err := s.walk(dir, add); err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) walk(root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.cfg.MatchesExtension(path) {
			return nil
		}
		switch {
		case d.Type().IsRegular():
			add(path)
		case d.Type()&fs.ModeSymlink != 0 && s.cfg.Scan.FollowSymlinks:
			// Linked directories are not descended into.
			info, statErr := os.Stat(path)
			if statErr == nil && info.Mode().IsRegular() {
				add(path)
			}
		}
		return nil
	})
}

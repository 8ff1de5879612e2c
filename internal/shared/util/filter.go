package util

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// PathFilter decides which directories and files a source walk skips.
// Patterns are matched against base names.
type PathFilter struct {
	dirs  []glob.Glob
	files []glob.Glob
	exts  map[string]bool
}

func NewPathFilter(excludeDirs, excludeFiles, extensions []string) (*PathFilter, error) {
	f := &PathFilter{exts: make(map[string]bool, len(extensions))}
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		f.dirs = append(f.dirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		f.files = append(f.files, g)
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			f.exts[ext] = true
		}
	}
	return f, nil
}

func (f *PathFilter) SkipDir(path string) bool {
	if f == nil {
		return false
	}
	base := filepath.Base(path)
	for _, g := range f.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// SkipFile reports whether path has an unwanted extension or matches an
// exclude pattern.
func (f *PathFilter) SkipFile(path string) bool {
	if f == nil {
		return false
	}
	base := filepath.Base(path)
	if len(f.exts) > 0 && !f.exts[strings.ToLower(filepath.Ext(base))] {
		return true
	}
	for _, g := range f.files {
		if g.Match(base) {
			return true
		}
	}
	return false
}

package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// FileInfo describes one discovered source file.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory tree collecting source files by extension,
// skipping paths matched by ignore patterns.
type Scanner struct {
	rootDir    string
	extensions []string
	ignores    []glob.Glob
}

// New returns a scanner rooted at rootDir. With no extensions given it
// collects Python sources.
func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = []string{".py"}
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Ignore adds glob patterns matched against the slash-separated path
// relative to the scan root. A bad pattern fails the call; prior
// patterns stay registered.
func (s *Scanner) Ignore(patterns ...string) error {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		s.ignores = append(s.ignores, g)
	}
	return nil
}

// Scan walks the tree and returns matching files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.rootDir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if rel != "." && s.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.isTargetFile(path) || s.ignored(rel) {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.rootDir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *Scanner) ignored(rel string) bool {
	for _, g := range s.ignores {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (s *Scanner) isTargetFile(path string) bool {
	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if strings.EqualFold(ext, targetExt) {
			return true
		}
	}
	return false
}

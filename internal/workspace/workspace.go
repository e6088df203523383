package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pipe01/svgtok/internal/lexer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Workspace lexes markup files relative to a root folder and caches their tokens.
type Workspace struct {
	rootPath string

	mu         sync.Mutex
	lexedFiles map[string][]lexer.Token
}

func New(rootPath string) *Workspace {
	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}

	return &Workspace{
		rootPath:   rootPath,
		lexedFiles: make(map[string][]lexer.Token),
	}
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(w.rootPath, relPath)
}

// Load returns the tokens of a file, lexing it only if it hasn't been loaded before.
func (w *Workspace) Load(relPath string) ([]lexer.Token, error) {
	fullPath := w.fullPath(relPath)

	w.mu.Lock()
	tks, ok := w.lexedFiles[fullPath]
	w.mu.Unlock()

	if ok {
		return tks, nil
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()

	return w.store(fullPath, lexer.New(f, relPath))
}

// LoadWithContents lexes contents as the file at relPath, replacing anything cached for it.
func (w *Workspace) LoadWithContents(relPath string, contents []byte) ([]lexer.Token, error) {
	return w.store(w.fullPath(relPath), lexer.NewFromBytes(contents, relPath))
}

// Forget drops the cached tokens of a file, so the next Load reads it again.
func (w *Workspace) Forget(relPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.lexedFiles, w.fullPath(relPath))
}

// Files returns the absolute paths of every cached file, sorted.
func (w *Workspace) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := maps.Keys(w.lexedFiles)
	slices.Sort(files)
	return files
}

func (w *Workspace) store(fullPath string, l *lexer.Lexer) ([]lexer.Token, error) {
	tks, err := l.Collect()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		delete(w.lexedFiles, fullPath)
		return nil, fmt.Errorf("lex file: %w", err)
	}

	w.lexedFiles[fullPath] = tks

	return tks, nil
}

// Package codebase keeps parsed fish scripts in memory and serves them to
// the language server.
package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/fishast/fish/parser"
)

var log = commonlog.GetLogger("fishast.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
	open    map[string]bool
	flags   parser.ParseFlags
}

// FileInfo is the latest parse of one script.
type FileInfo struct {
	Path    string
	Content []byte
	Ast     *parser.Ast
	Errors  parser.ErrorList
}

// Function is a `function` block found in a script.
type Function struct {
	Name   string
	Range  parser.SourceRange
	Header parser.SourceRange
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
		open:    make(map[string]bool),
		flags:   parser.ContinueAfterError | parser.IncludeComments,
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsScript reports whether path names a fish script.
func IsScript(path string) bool {
	return filepath.Ext(path) == ".fish"
}

func skipDir(d fs.DirEntry, path, root string) bool {
	return path != root && strings.HasPrefix(d.Name(), ".")
}

func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(d, path, c.rootDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsScript(path) && !c.IsOpen(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile reparses content and replaces whatever was stored for path.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	var errs parser.ErrorList
	ast := parser.Parse(string(content), c.flags, &errs)
	info := &FileInfo{
		Path:    path,
		Content: content,
		Ast:     ast,
		Errors:  errs.Sorted(),
	}
	log.Debugf("parsed %s: %d errors", path, len(info.Errors))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

// OpenFile stores the editor's text for path and marks it open. Until
// CloseFile, disk rescans leave the stored text untouched.
func (c *Codebase) OpenFile(path string, content []byte) *FileInfo {
	c.mu.Lock()
	c.open[path] = true
	c.mu.Unlock()
	return c.UpdateFile(path, content)
}

// CloseFile marks path closed and reloads it from disk. It returns the
// reloaded file, or nil if path no longer exists.
func (c *Codebase) CloseFile(path string) *FileInfo {
	c.mu.Lock()
	delete(c.open, path)
	c.mu.Unlock()
	if err := c.ScanFile(path); err != nil {
		c.RemoveFile(path)
		return nil
	}
	return c.GetFile(path)
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the stored paths in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Functions lists the functions defined in the script stored for path.
func (c *Codebase) Functions(path string) []Function {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return FindFunctions(f.Ast, string(f.Content))
}

// FindFunctions returns every function block in ast, nested ones included,
// in source order. A function whose end is missing spans only its header.
func FindFunctions(ast *parser.Ast, src string) []Function {
	var funcs []Function
	for n := range ast.Walk().All() {
		block, ok := n.(*parser.BlockStatement)
		if !ok {
			continue
		}
		header, ok := block.Header.Embedded().(*parser.FunctionHeader)
		if !ok {
			continue
		}
		name, ok := parser.SourceOf(&header.FirstArg, src)
		if !ok {
			continue
		}
		headerRange, _ := parser.SourceRangeOf(header)
		rng, ok := parser.SourceRangeOf(block)
		if !ok {
			rng = headerRange
		}
		funcs = append(funcs, Function{Name: name, Range: rng, Header: headerRange})
	}
	return funcs
}

package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/fishast/fish/codebase"
	"github.com/dhamidi/fishast/fish/parser"
)

// Role says how fish uses a script found in a configuration directory.
type Role int

const (
	RoleScript     Role = iota // any other script
	RoleConfig                 // config.fish at the root
	RoleConfD                  // conf.d/*.fish, sourced at startup
	RoleFunction               // functions/*.fish, autoloaded by name
	RoleCompletion             // completions/*.fish, autoloaded by command
)

func (r Role) String() string {
	switch r {
	case RoleConfig:
		return "config"
	case RoleConfD:
		return "conf.d"
	case RoleFunction:
		return "function"
	case RoleCompletion:
		return "completion"
	default:
		return "script"
	}
}

// Project represents a fish configuration directory such as
// ~/.config/fish.
type Project struct {
	RootDir string
	Scripts []*Script
}

// Script is one *.fish file of a project.
type Script struct {
	Path string
	Role Role
	// Name is the file name without the .fish extension. For autoloaded
	// scripts it is the function or command the file provides.
	Name string
}

// Load scans the current directory for a fish configuration.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom scans rootDir for fish scripts. Hidden directories are skipped.
func LoadFrom(rootDir string) (*Project, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("read project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read project directory: %s is not a directory", rootDir)
	}

	proj := &Project{RootDir: rootDir}
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !codebase.IsScript(path) {
			return nil
		}
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		proj.Scripts = append(proj.Scripts, &Script{
			Path: path,
			Role: roleOf(rel),
			Name: strings.TrimSuffix(filepath.Base(path), ".fish"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan fish files in %s: %w", rootDir, err)
	}

	if len(proj.Scripts) == 0 {
		return nil, fmt.Errorf("could not detect fish configuration: no *.fish files in %s", rootDir)
	}
	return proj, nil
}

// roleOf classifies a path relative to the project root. Only files
// directly inside the well-known directories are autoloaded.
func roleOf(rel string) Role {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch {
	case len(parts) == 1 && parts[0] == "config.fish":
		return RoleConfig
	case len(parts) != 2:
		return RoleScript
	}
	switch parts[0] {
	case "conf.d":
		return RoleConfD
	case "functions":
		return RoleFunction
	case "completions":
		return RoleCompletion
	}
	return RoleScript
}

// ScriptsWithRole returns the scripts with the given role in path order.
func (p *Project) ScriptsWithRole(role Role) []*Script {
	var scripts []*Script
	for _, s := range p.Scripts {
		if s.Role == role {
			scripts = append(scripts, s)
		}
	}
	return scripts
}

// StartupOrder returns the scripts fish sources when it starts: conf.d
// files ordered by file name, then config.fish.
func (p *Project) StartupOrder() []*Script {
	order := p.ScriptsWithRole(RoleConfD)
	sort.SliceStable(order, func(i, j int) bool {
		return filepath.Base(order[i].Path) < filepath.Base(order[j].Path)
	})
	return append(order, p.ScriptsWithRole(RoleConfig)...)
}

// Problem is a finding of Check. Syntax problems carry the parse error;
// lint problems only a message.
type Problem struct {
	Path    string
	Source  string
	Err     *parser.ParseError
	Message string
}

func (pr Problem) Error() string {
	if pr.Err != nil {
		return pr.Path + ": " + pr.Err.Text
	}
	return pr.Path + ": " + pr.Message
}

// Describe renders the problem with the offending source line for syntax
// errors.
func (pr Problem) Describe() string {
	if pr.Err != nil {
		return pr.Err.DescribeWithPrefix(pr.Source, pr.Path+": ", false, false)
	}
	return pr.Error()
}

// Check parses every script and reports syntax errors, plus function files
// that do not define the function they are named after.
func (p *Project) Check() ([]Problem, error) {
	var problems []Problem
	for _, s := range p.Scripts {
		content, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		problems = append(problems, CheckScript(s, string(content))...)
	}
	return problems, nil
}

// CheckScript checks the source of one script.
func CheckScript(s *Script, src string) []Problem {
	var problems []Problem
	var errs parser.ErrorList
	ast := parser.Parse(src, parser.ContinueAfterError, &errs)
	for _, err := range errs.Sorted() {
		problems = append(problems, Problem{Path: s.Path, Source: src, Err: err})
	}

	if s.Role == RoleFunction && !definesFunction(ast, src, s.Name) {
		problems = append(problems, Problem{
			Path:    s.Path,
			Source:  src,
			Message: fmt.Sprintf("autoloaded file does not define function '%s'", s.Name),
		})
	}
	return problems
}

func definesFunction(ast *parser.Ast, src, name string) bool {
	for _, fn := range codebase.FindFunctions(ast, src) {
		if fn.Name == name {
			return true
		}
	}
	return false
}

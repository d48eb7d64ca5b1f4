package ui

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dhamidi/fishast/fish/parser"
	"github.com/dhamidi/fishast/format"
)

// Session is one submitted script and its parse results.
type Session struct {
	ID         string              `json:"id"`
	Source     string              `json:"source"`
	CreatedAt  time.Time           `json:"created_at"`
	Dump       string              `json:"dump"`
	Errors     []format.Diagnostic `json:"errors"`
	AST        json.RawMessage     `json:"ast"`
	Formatted  string              `json:"formatted,omitempty"`
	Incomplete bool                `json:"incomplete"`
	Described  []string            `json:"-"`
	ParseFlags parser.ParseFlags   `json:"-"`
}

// Sessions stores parse sessions by id.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	indent   int
}

func NewSessions(indent int) *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		indent:   indent,
	}
}

// Create parses src and stores the result under a fresh id.
func (s *Sessions) Create(src string, flags parser.ParseFlags) (*Session, error) {
	var errs parser.ErrorList
	ast := parser.Parse(src, flags, &errs)
	errs = errs.Sorted()

	var doc bytes.Buffer
	enc := format.NewASTJSONEncoder(&doc)
	enc.Errors = errs
	if err := enc.Encode(ast, src); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Source:     src,
		CreatedAt:  time.Now(),
		Dump:       ast.Dump(src),
		Errors:     format.Diagnostics(src, errs),
		AST:        doc.Bytes(),
		ParseFlags: flags,
		Incomplete: parser.IsIncomplete(src),
	}
	for _, e := range errs {
		sess.Described = append(sess.Described, e.Describe(src))
	}
	if !ast.Errored() {
		if out, err := format.PrettyPrintFish([]byte(src), s.indent); err == nil {
			sess.Formatted = string(out)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// List returns all sessions, newest first.
func (s *Sessions) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Package ui serves a browser playground for the fish parser.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/fishast/fish/parser"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("fishast.ui")

// maxSourceBytes bounds submitted scripts.
const maxSourceBytes = 1 << 20

type Server struct {
	sessions   *Sessions
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

// NewServer builds the playground. indent is used for the formatted view.
// Files under ui/static and ui/templates in the working directory take
// precedence over the embedded ones.
func NewServer(indent int) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"lines": func(s string) []string {
			return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		},
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		sessions:   NewSessions(indent),
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /parses/{id}", s.handleGetParse)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

// parseRequest is the JSON body accepted by POST /parse.
type parseRequest struct {
	Source             string `json:"source"`
	ContinueAfterError bool   `json:"continue_after_error"`
	IncludeComments    bool   `json:"include_comments"`
}

func (req parseRequest) flags() parser.ParseFlags {
	var flags parser.ParseFlags
	if req.ContinueAfterError {
		flags |= parser.ContinueAfterError
	}
	if req.IncludeComments {
		flags |= parser.IncludeComments
	}
	return flags
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Source = r.FormValue("source")
		req.ContinueAfterError = r.FormValue("continue_after_error") != ""
		req.IncludeComments = r.FormValue("include_comments") != ""
	}

	if req.Source == "" {
		http.Error(w, "must provide source", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Create(req.Source, req.flags())
	if err != nil {
		http.Error(w, "parse failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debugf("session %s: %d bytes, %d errors", sess.ID, len(sess.Source), len(sess.Errors))
	http.Redirect(w, r, "/parses/"+sess.ID, http.StatusSeeOther)
}

func (s *Server) handleGetParse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "parse not found", http.StatusNotFound)
		return
	}

	accept := r.Header.Get("Accept")
	if strings.HasPrefix(accept, "application/json") {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
		return
	}

	s.render(w, "parse.html", sess)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Sessions []*Session
	}{
		Sessions: s.sessions.List(),
	}
	s.render(w, "index.html", data)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

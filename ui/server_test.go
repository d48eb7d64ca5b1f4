package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(4)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func submit(t *testing.T, s *Server, body, contentType string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got status %d, want %d: %s", rec.Code, http.StatusSeeOther, rec.Body)
	}
	loc := rec.Header().Get("Location")
	id, ok := strings.CutPrefix(loc, "/parses/")
	if !ok {
		t.Fatalf("got location %q, want /parses/{id}", loc)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session id %q is not a uuid: %s", id, err)
	}
	return loc
}

func getJSON(t *testing.T, s *Server, path string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	return got
}

func TestParseJSON(t *testing.T) {
	s := newTestServer(t)
	loc := submit(t, s, `{"source": "if true\necho hi\nend"}`, "application/json")
	got := getJSON(t, s, loc)

	if dump, _ := got["dump"].(string); !strings.HasPrefix(dump, "job_list\n") {
		t.Errorf("got dump %q, want it to start with job_list", dump)
	}
	if errs, _ := got["errors"].([]any); len(errs) != 0 {
		t.Errorf("got errors %v, want none", errs)
	}
	ast, _ := got["ast"].(map[string]any)
	root, _ := ast["root"].(map[string]any)
	if root["kind"] != "job_list" {
		t.Errorf("got root %v, want job_list", root["kind"])
	}
	if got["formatted"] != "if true\n    echo hi\nend\n" {
		t.Errorf("got formatted %q", got["formatted"])
	}
}

func TestParseForm(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"source": {"echo a | and b; end"}, "continue_after_error": {"1"}}
	loc := submit(t, s, form.Encode(), "application/x-www-form-urlencoded")
	got := getJSON(t, s, loc)

	errs, _ := got["errors"].([]any)
	if len(errs) < 2 {
		t.Fatalf("got %d errors, want at least 2", len(errs))
	}
	first, _ := errs[0].(map[string]any)
	if first["code"] != "andor_in_pipeline" {
		t.Errorf("got code %v, want andor_in_pipeline", first["code"])
	}
	if _, ok := got["formatted"]; ok {
		t.Errorf("script with errors has a formatted view")
	}
}

func TestParseHTML(t *testing.T) {
	s := newTestServer(t)
	loc := submit(t, s, `{"source": "echo 'oops"}`, "application/json")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, loc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Unexpected end of string, quotes are not balanced", "job_list"} {
		if !strings.Contains(body, want) {
			t.Errorf("page lacks %q", want)
		}
	}
}

func TestServerErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		ctype  string
		want   int
	}{
		{"empty source", http.MethodPost, "/parse", `{"source": ""}`, "application/json", http.StatusBadRequest},
		{"bad json", http.MethodPost, "/parse", `{`, "application/json", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/parses/" + uuid.NewString(), "", "", http.StatusNotFound},
		{"index", http.MethodGet, "/", "", "", http.StatusOK},
		{"stylesheet", http.MethodGet, "/static/style.css", "", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSessionsList(t *testing.T) {
	sessions := NewSessions(4)
	a, err := sessions.Create("echo a", 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sessions.Create("echo b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("sessions share id %s", a.ID)
	}
	list := sessions.List()
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if got, ok := sessions.Get(a.ID); !ok || got.Source != "echo a" {
		t.Errorf("got %v, want session for echo a", got)
	}
}

func TestWebSocketCheck(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	tests := []struct {
		src        string
		codes      []string
		incomplete bool
	}{
		{"echo hi", nil, false},
		{"if true", []string{"generic"}, true},
		{"echo ok; end", []string{"unbalancing_end"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.src)); err != nil {
				t.Fatal(err)
			}
			var got checkResult
			if err := conn.ReadJSON(&got); err != nil {
				t.Fatal(err)
			}
			if got.Type != "diagnostics" {
				t.Errorf("got type %q, want diagnostics", got.Type)
			}
			if got.Incomplete != tt.incomplete {
				t.Errorf("got incomplete %v, want %v", got.Incomplete, tt.incomplete)
			}
			if len(got.Diagnostics) != len(tt.codes) {
				t.Fatalf("got %v, want codes %v", got.Diagnostics, tt.codes)
			}
			for i, d := range got.Diagnostics {
				if d.Code != tt.codes[i] {
					t.Errorf("got code %s, want %s", d.Code, tt.codes[i])
				}
			}
		})
	}
}

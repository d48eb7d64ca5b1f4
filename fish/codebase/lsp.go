package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/fishast/fish/parser"
	"github.com/dhamidi/fishast/format"
)

const lsName = "fishast"

var lspLog = commonlog.GetLogger("fishast.lsp")

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	indent   int
}

// NewLSPServer creates a server that formats with indent spaces per level.
func NewLSPServer(version string, indent int) *LSPServer {
	ls := &LSPServer{
		version: version,
		indent:  indent,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFormatting:     ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)
	lspLog.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.OnChange = func(path string, f *FileInfo) {
		publish(ctx.Notify, pathToURI(path), f)
	}
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri protocol.DocumentUri, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		lspLog.Warningf("bad document uri %q: %s", uri, err)
		return
	}
	publish(ctx.Notify, uri, ls.codebase.UpdateFile(path, content))
}

// publish sends the diagnostics of f. A nil f clears them.
func publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, f *FileInfo) {
	diagnostics := []protocol.Diagnostic{}
	if f != nil {
		diagnostics = toDiagnostics(string(f.Content), f.Errors)
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		lspLog.Warningf("bad document uri %q: %s", params.TextDocument.URI, err)
		return nil
	}
	f := ls.codebase.OpenFile(path, []byte(params.TextDocument.Text))
	publish(ctx.Notify, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	publish(ctx.Notify, params.TextDocument.URI, ls.codebase.CloseFile(path))
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		lspLog.Warningf("rescan %s: %s", path, err)
		return nil
	}
	if f := ls.codebase.GetFile(path); f != nil {
		ls.update(ctx, params.TextDocument.URI, f.Content)
	}
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	src := string(f.Content)
	return documentSymbols(src, FindFunctions(f.Ast, src)), nil
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	edits, err := formatEdits(f.Content, ls.indent)
	if err != nil {
		lspLog.Debugf("format %s: %s", path, err)
		return nil, nil
	}
	return edits, nil
}

func toPosition(idx *format.LineIndex, offset int) protocol.Position {
	line, char := idx.UTF16Position(offset)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func toRange(idx *format.LineIndex, rng parser.SourceRange) protocol.Range {
	return protocol.Range{Start: toPosition(idx, rng.Start), End: toPosition(idx, rng.End())}
}

// toDiagnostics converts parse errors. Errors without a position are placed
// at the end of src.
func toDiagnostics(src string, errs parser.ErrorList) []protocol.Diagnostic {
	idx := format.NewLineIndex(src)
	source := lsName
	severity := protocol.DiagnosticSeverityError
	diags := make([]protocol.Diagnostic, 0, len(errs))
	for _, err := range errs {
		rng := err.Range()
		if rng.Start < 0 {
			rng = parser.SourceRange{Start: len(src)}
		}
		diags = append(diags, protocol.Diagnostic{
			Range:    toRange(idx, rng),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: err.Code.String()},
			Source:   &source,
			Message:  err.Text,
		})
	}
	return diags
}

func documentSymbols(src string, funcs []Function) []protocol.DocumentSymbol {
	idx := format.NewLineIndex(src)
	symbols := make([]protocol.DocumentSymbol, 0, len(funcs))
	for _, fn := range funcs {
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           fn.Name,
			Kind:           protocol.SymbolKindFunction,
			Range:          toRange(idx, fn.Range),
			SelectionRange: toRange(idx, fn.Header),
		})
	}
	return symbols
}

// formatEdits replaces the whole document with its pretty-printed form. It
// returns no edits when the text is already formatted.
func formatEdits(content []byte, indent int) ([]protocol.TextEdit, error) {
	formatted, err := format.PrettyPrintFish(content, indent)
	if err != nil {
		return nil, err
	}
	if string(formatted) == string(content) {
		return []protocol.TextEdit{}, nil
	}
	idx := format.NewLineIndex(string(content))
	return []protocol.TextEdit{{
		Range:   toRange(idx, parser.SourceRange{Start: 0, Length: len(content)}),
		NewText: string(formatted),
	}}, nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

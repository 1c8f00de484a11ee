// Package lsp serves the fixers to editors as document formatting over the
// Language Server Protocol.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/mixdoc/config"
	"github.com/dhamidi/mixdoc/fixer"
)

const lsName = "mixdoc"

var log = commonlog.GetLogger("mixdoc.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	config    *config.Config
	documents map[protocol.DocumentUri]string
}

// NewServer creates a server using cfg until the client names a workspace
// root; a nil cfg means defaults.
func NewServer(version string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &Server{
		version:   version,
		config:    cfg,
		documents: make(map[protocol.DocumentUri]string),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := ""
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	if rootDir != "" {
		if path := config.Find(rootDir); path != "" {
			cfg, err := config.Load(path)
			if err != nil {
				log.Errorf("%s", err)
			} else {
				ls.mu.Lock()
				ls.config = cfg
				ls.mu.Unlock()
			}
		}
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	log.Infof("initialized with rules %v", ls.config.Rules)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.setDocument(params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.documents, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.setDocument(params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *Server) setDocument(uri protocol.DocumentUri, text string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.documents[uri] = text
}

// textDocumentFormatting replaces the whole document when a fixer changed it.
func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	uri := params.TextDocument.URI
	text, ok := ls.documents[uri]
	if !ok {
		return nil, errors.Newf("document %s is not open", uri)
	}

	path, err := uriToPath(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "document %s", uri)
	}
	if ls.isExcluded(path) {
		log.Debugf("%s is excluded", path)
		return nil, nil
	}

	fixers, err := fixer.Lookup(ls.config.Rules, ls.settings(params.Options))
	if err != nil {
		return nil, err
	}
	result, err := fixer.NewRunner(fixers...).FixSource([]byte(text), path)
	if err != nil {
		// unparsable while typing is normal
		log.Debugf("%s", err)
		return nil, nil
	}
	if !result.Changed {
		return nil, nil
	}

	ls.documents[uri] = string(result.Output)
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(text),
		},
		NewText: string(result.Output),
	}}, nil
}

// settings takes the indent from the editor unless a config file set one.
func (ls *Server) settings(opts protocol.FormattingOptions) fixer.Settings {
	s := fixer.Settings{
		Indent:         ls.config.Indent,
		SkipFullyTyped: ls.config.SkipFullyTyped,
	}
	if ls.config.Path != "" {
		return s
	}
	if insertSpaces, ok := opts[protocol.FormattingOptionInsertSpaces].(bool); ok && !insertSpaces {
		s.Indent = "\t"
	} else if size := tabSize(opts[protocol.FormattingOptionTabSize]); size > 0 {
		s.Indent = strings.Repeat(" ", size)
	}
	return s
}

func tabSize(v any) int {
	switch v := v.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case protocol.UInteger:
		return int(v)
	}
	return 0
}

func (ls *Server) isExcluded(path string) bool {
	rel, err := filepath.Rel(ls.config.Root(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return ls.config.IsExcluded(rel)
}

// endPosition is the position just past the last character of text, with
// characters counted in UTF-16 code units.
func endPosition(text string) protocol.Position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndex(text, "\n")+1:]
	var units int
	for _, r := range last {
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
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

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

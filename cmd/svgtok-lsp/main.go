package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pipe01/svgtok/errors"
	"github.com/pipe01/svgtok/internal/lexer"
	"github.com/pipe01/svgtok/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "svgtok"

var version string = "0.0.1"
var handler protocol.Handler

var log = commonlog.GetLogger("svgtok.lsp")

var (
	documentsMu sync.Mutex
	documents   = map[string]string{}
)

// Indexes into the legend sent on initialize
const (
	semanticType protocol.UInteger = iota
	semanticProperty
	semanticString
	semanticComment
	semanticMacro
	semanticOperator
)

var semanticLegend = []string{
	"type",
	"property",
	"string",
	"comment",
	"macro",
	"operator",
}

func main() {
	commonlog.Configure(1, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			setDocument(params.TextDocument.URI, params.TextDocument.Text)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			content, ok := getDocument(params.TextDocument.URI)
			if !ok {
				return nil
			}

			for _, change := range params.ContentChanges {
				switch change := change.(type) {
				case protocol.TextDocumentContentChangeEventWhole:
					content = change.Text

				case protocol.TextDocumentContentChangeEvent:
					startIndex, endIndex := change.Range.IndexesIn(content)
					content = content[:startIndex] + change.Text + content[endIndex:]
				}
			}
			setDocument(params.TextDocument.URI, content)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documentsMu.Lock()
			delete(documents, params.TextDocument.URI)
			documentsMu.Unlock()

			context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
				URI:         params.TextDocument.URI,
				Diagnostics: []protocol.Diagnostic{},
			})
			return nil
		},
		TextDocumentSemanticTokensFull: semanticTokensFull,
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

func getDocument(uri string) (string, bool) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	content, ok := documents[uri]
	return content, ok
}

func setDocument(uri, content string) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	documents[uri] = content
}

func handleDocument(context *glsp.Context, docURI string) error {
	diag, err := diagnose(docURI)
	if err != nil {
		return err
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diag,
	})

	return nil
}

func diagnose(docURI string) ([]protocol.Diagnostic, error) {
	url, err := url.Parse(docURI)
	if err != nil {
		return nil, fmt.Errorf("parse document uri: %w", err)
	}
	if url.Scheme != "file" {
		return nil, fmt.Errorf("invalid document uri scheme %q", url.Scheme)
	}

	contents, ok := getDocument(docURI)
	if !ok {
		return nil, nil
	}

	ws := workspace.New(filepath.Dir(url.Path))

	diag := []protocol.Diagnostic{}

	_, err = ws.LoadWithContents(filepath.Base(url.Path), []byte(contents))
	if err != nil {
		log.Debugf("%s: %s", docURI, err)

		if serr, ok := errors.Situate(err); ok {
			diag = append(diag, protocol.Diagnostic{
				Range: protocol.Range{
					Start: pos(serr.At()),
					End:   pos(serr.At()),
				},
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  serr.Unwrap().Error(),
			})
		} else {
			diag = append(diag, protocol.Diagnostic{
				Severity: ptr(protocol.DiagnosticSeverityError),
				Source:   ptr(lsName),
				Message:  err.Error(),
			})
		}
	}

	return diag, nil
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticLegend,
			TokenModifiers: []string{},
		},
		Range: false,
		Full:  true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func semanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := getDocument(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document %q not found", params.TextDocument.URI)
	}

	l := lexer.NewFromBytes([]byte(content), filepath.Base(params.TextDocument.URI))

	tks, err := l.Collect()
	if err != nil {
		// Diagnostics already report the error
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}

	return &protocol.SemanticTokens{
		Data: semanticTokens(tks),
	}, nil
}

// semanticTokens encodes tokens the way LSP expects them: five integers per token, with
// positions relative to the previous one. Tokens spanning several lines are left out.
func semanticTokens(tks []lexer.Token) []protocol.UInteger {
	data := make([]protocol.UInteger, 0)

	var prevPos lexer.Location
	var prevType lexer.TokenType = -1

	for _, tk := range tks {
		tokenType, width, ok := classify(tk, prevType)
		prevType = tk.Type

		if !ok {
			continue
		}

		var startDelta protocol.UInteger
		if tk.Start.Line == prevPos.Line {
			startDelta = protocol.UInteger(tk.Start.Column - prevPos.Column)
		} else {
			startDelta = protocol.UInteger(tk.Start.Column)
		}

		data = append(data,
			protocol.UInteger(tk.Start.Line-prevPos.Line),
			startDelta,
			protocol.UInteger(width),
			tokenType,
			0,
		)

		prevPos = tk.Start
	}

	return data
}

func classify(tk lexer.Token, prevType lexer.TokenType) (tokenType protocol.UInteger, width int, ok bool) {
	if strings.Contains(tk.Contents, "\n") {
		return 0, 0, false
	}

	n := len([]rune(tk.Contents))

	switch tk.Type {
	case lexer.TokenIdentifier:
		if prevType == lexer.TokenTagStartOpen || prevType == lexer.TokenTagEndOpen {
			return semanticType, n, true
		}
		return semanticProperty, n, true

	case lexer.TokenValue:
		return semanticString, n + len(`""`), true

	case lexer.TokenComment:
		return semanticComment, n + len("<!--  -->"), true

	case lexer.TokenProcessingInstruction:
		return semanticMacro, n + len("<?  ?>"), true

	case lexer.TokenEquals:
		return semanticOperator, 1, true
	}

	return 0, 0, false
}

func ptr[T any](v T) *T {
	return &v
}

func pos(l lexer.Location) protocol.Position {
	return protocol.Position{
		Line:      uint32(l.Line),
		Character: uint32(l.Column),
	}
}

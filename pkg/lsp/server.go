package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/Gaelan/fish-shell/pkg/cli"
	"github.com/Gaelan/fish-shell/pkg/diag"
	"github.com/Gaelan/fish-shell/pkg/parse"
	"github.com/Gaelan/fish-shell/pkg/shell"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
	errUnknownDocument = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "unknown document"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":                  s.initialize,
		"textDocument/didOpen":        s.didOpen,
		"textDocument/didChange":      s.didChange,
		"textDocument/didClose":       s.didClose,
		"textDocument/hover":          s.hover,
		"textDocument/selectionRange": s.selectionRange,
		"commandline/call":            s.call,

		// Required by the protocol.
		"initialized": noop,
		"shutdown":    noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Debug("method not found", "method", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

// The capabilities of go-lsp predate selection ranges.
type serverCapabilities struct {
	lsp.ServerCapabilities
	SelectionRangeProvider bool `json:"selectionRangeProvider,omitempty"`
}

type initializeResult struct {
	Capabilities serverCapabilities `json:"capabilities"`
}

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &initializeResult{
		Capabilities: serverCapabilities{
			ServerCapabilities: lsp.ServerCapabilities{
				TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
					Options: &lsp.TextDocumentSyncOptions{
						OpenClose: true,
						Change:    lsp.TDSKFull,
					},
				},
				HoverProvider: true,
			},
			SelectionRangeProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content, ok := s.content[params.TextDocument.URI]
	if !ok {
		return nil, errUnknownDocument
	}

	idx := lspPositionToIdx(content, params.Position)
	token := parse.TokenExtent(content, idx)
	if token.Len() == 0 {
		return lsp.Hover{}, nil
	}
	runes := []rune(content)
	text, err := parse.Unescape(string(runes[token.From:token.To]), parse.UnescapeStrict)
	if err != nil {
		text = string(runes[token.From:token.To])
	}
	job := parse.JobExtent(content, idx)
	r := lspRangeFromRange(content, token)
	return lsp.Hover{
		Contents: []lsp.MarkedString{
			lsp.RawMarkedString(fmt.Sprintf("token %q", text)),
			lsp.RawMarkedString(fmt.Sprintf("job %q, line %d",
				strings.TrimSpace(string(runes[job.From:job.To])), parse.LineNo(content, idx))),
		},
		Range: &r,
	}, nil
}

type selectionRangeParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
	Positions    []lsp.Position             `json:"positions"`
}

type selectionRange struct {
	Range  lsp.Range       `json:"range"`
	Parent *selectionRange `json:"parent,omitempty"`
}

func (s *server) selectionRange(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params selectionRangeParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content, ok := s.content[params.TextDocument.URI]
	if !ok {
		return nil, errUnknownDocument
	}

	result := make([]*selectionRange, len(params.Positions))
	for i, pos := range params.Positions {
		result[i] = selectionRangeAt(content, lspPositionToIdx(content, pos))
	}
	return result, nil
}

// Builds the chain of extents containing idx, from the innermost to the whole
// document. Empty extents and extents equal to the previous one are skipped.
func selectionRangeAt(content string, idx int) *selectionRange {
	whole := diag.Ranging{From: 0, To: utf8.RuneCountInString(content)}
	sr := &selectionRange{Range: lspRangeFromRange(content, whole)}
	prev := whole
	for _, extent := range []diag.Ranging{
		parse.JobExtent(content, idx),
		parse.ProcessExtent(content, idx),
		parse.TokenExtent(content, idx),
	} {
		if extent.Len() == 0 || extent == prev {
			continue
		}
		sr = &selectionRange{Range: lspRangeFromRange(content, extent), Parent: sr}
		prev = extent
	}
	return sr
}

type callParams struct {
	lsp.TextDocumentPositionParams
	Args []string `json:"args"`
}

type callResult struct {
	Status int    `json:"status"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	// Edits to apply to the document, empty if the builtin did not change it.
	Edits []lsp.TextEdit `json:"edits"`
	// Position of the cursor after the call.
	Cursor lsp.Position `json:"cursor"`
}

// Runs the commandline builtin against the document, with the cursor at the
// given position. The document itself is left unchanged; the client is
// expected to apply the returned edits.
func (s *server) call(ctx context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params callParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content, ok := s.content[params.TextDocument.URI]
	if !ok {
		return nil, errUnknownDocument
	}

	state := cli.Snapshot{State: cli.State{Buffer: cli.Buffer{
		Text: content, Cursor: lspPositionToIdx(content, params.Position)}}}
	var stdout, stderr bytes.Buffer
	status, state := shell.Eval(ctx, &stdout, &stderr, state, params.Args)
	logger.Debug("call", "args", params.Args, "status", status)

	result := &callResult{
		Status: status,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Edits:  []lsp.TextEdit{},
		Cursor: lspPositionFromIdx(state.Buffer.Text, state.Buffer.Cursor),
	}
	if state.Buffer.Text != content {
		whole := diag.Ranging{From: 0, To: utf8.RuneCountInString(content)}
		result.Edits = append(result.Edits, lsp.TextEdit{
			Range:   lspRangeFromRange(content, whole),
			NewText: state.Buffer.Text,
		})
	}
	return result, nil
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(content)})
}

func diagnostics(content string) []lsp.Diagnostic {
	diags := []lsp.Diagnostic{}
	for tok := range parse.Tokenize(content) {
		switch tok.Kind {
		case parse.Invalid:
			diags = append(diags, lsp.Diagnostic{
				Range:    lspRangeFromRange(content, tok),
				Severity: lsp.Error,
				Source:   "parse",
				Message:  fmt.Sprintf("unexpected %q", tok.Text),
			})
		case parse.String:
			_, err := parse.Unescape(tok.Text, parse.UnescapeStrict)
			var parseErr *parse.Error
			if errors.As(err, &parseErr) {
				diags = append(diags, lsp.Diagnostic{
					Range:    lspRangeFromRange(content, parseErr.Shift(tok.From)),
					Severity: lsp.Warning,
					Source:   "parse",
					Message:  parseErr.Message,
				})
			}
		}
	}
	return diags
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

// Converts an LSP position to a rune index.
func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

// Converts a rune index to an LSP position.
func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (rune index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false
	i := 0

	for _, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
		i++
	}
	f(i, p)
}

package languageServer

import "github.com/riscvtools/rv32asm/assembler"

type DocumentUri string

type TextDocumentItem struct {
	URI        DocumentUri `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`

	lastAssembledResult *assembler.AssembledResult
}

type TextDocumentIdentifier struct {
	URI DocumentUri `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentUri `json:"uri"`
	Version int         `json:"version"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"` // full-document sync only
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type InitializeParams struct {
	ProcessID int `json:"processId"`
}

type DocumentDiagnosticsParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentDiagnosticsReport struct {
	Kind  string                 `json:"kind"` // always "full"
	Items []assembler.Diagnostic `json:"items"`
}

type PublishDiagnosticsParams struct {
	URI         DocumentUri            `json:"uri"`
	Version     int                    `json:"version"`
	Diagnostics []assembler.Diagnostic `json:"diagnostics"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     assembler.TextPosition `json:"position"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
}

type DiagnosticOptions struct {
	WorkDoneProgress      bool `json:"workDoneProgress"`
	InterFileDependencies bool `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool `json:"workspaceDiagnostics"`
}

type ServerCapabilities struct {
	TextDocumentSync  int               `json:"textDocumentSync"`
	DiagnosticOptions DiagnosticOptions `json:"diagnosticOptions"`
	HoverProvider     bool              `json:"hoverProvider"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

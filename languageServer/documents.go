package languageServer

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/riscvtools/rv32asm/assembler"
	"github.com/riscvtools/rv32asm/util"
)

var documentMap = make(map[string]TextDocumentItem)

func assembleAndReportDiagnostics(uri DocumentUri) []assembler.Diagnostic {
	doc := documentMap[string(uri)]

	res := assembler.Assemble(doc.Text)
	if res.Diagnostics == nil {
		res.Diagnostics = make([]assembler.Diagnostic, 0)
	}
	doc.lastAssembledResult = res
	documentMap[string(uri)] = doc
	return res.Diagnostics
}

func publishDiagnostics(conn *jsonrpc2.Conn, uri DocumentUri, version int) {
	conn.Notify(context.Background(), "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: assembleAndReportDiagnostics(uri),
	})
}

func documentOpenNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidOpenTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	documentMap[string(decodedParams.TextDocument.URI)] = decodedParams.TextDocument
	publishDiagnostics(conn, decodedParams.TextDocument.URI, decodedParams.TextDocument.Version)
}

func documentChangeNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidChangeTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}
	if len(decodedParams.ContentChanges) == 0 {
		return
	}

	doc := documentMap[string(decodedParams.TextDocument.URI)]
	doc.Text = decodedParams.ContentChanges[0].Text
	doc.Version = decodedParams.TextDocument.Version
	documentMap[string(decodedParams.TextDocument.URI)] = doc

	publishDiagnostics(conn, decodedParams.TextDocument.URI, doc.Version)
}

func documentCloseNotification(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidCloseTextDocumentParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	delete(documentMap, string(decodedParams.TextDocument.URI))
}

func documentDiagnostics(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentDiagnosticsParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	conn.Reply(context.Background(), req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: assembleAndReportDiagnostics(decodedParams.TextDocument.URI),
	})
}

func hoverRequest(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := TextDocumentPositionParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	doc := documentMap[string(decodedParams.TextDocument.URI)]
	res := doc.lastAssembledResult
	if res == nil {
		res = assembler.Assemble(doc.Text)
		doc.lastAssembledResult = res
		documentMap[string(decodedParams.TextDocument.URI)] = doc
	}

	markdown, ok := res.EvaluateHover(decodedParams.Position)
	if !ok {
		conn.Reply(context.Background(), req.ID, nil)
		return
	}

	util.LogF("rv32asm language server: hover at %d:%d", decodedParams.Position.Line, decodedParams.Position.Char)
	conn.Reply(context.Background(), req.ID, Hover{
		Contents: MarkupContent{Kind: "markdown", Value: markdown},
	})
}

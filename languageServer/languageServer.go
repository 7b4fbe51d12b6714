package languageServer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/riscvtools/rv32asm/util"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// ListenAndServe speaks LSP over stdin/stdout, the way editors launch us.
func ListenAndServe() {
	h := handler{}
	<-jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(stdrwc{}, jsonrpc2.VSCodeObjectCodec{}), h).DisconnectNotify()
}

// ListenAndServeTCP accepts LSP connections on a TCP port, which is easier to
// attach a debugger to than a stdio pipe.
func ListenAndServeTCP(addr string) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("rv32asm language server: could not bind %s: %v", addr, err)
	}
	defer lis.Close()

	log.Println("rv32asm language server: listening on", addr)

	connectionCount := 0
	for {
		conn, err := lis.Accept()
		if err != nil {
			log.Fatalf("rv32asm language server: accept failed: %v", err)
		}
		connectionCount++
		id := connectionCount
		log.Printf("rv32asm language server: connection #%d opened\n", id)

		rpcConn := jsonrpc2.NewConn(context.Background(), jsonrpc2.NewBufferedStream(conn, jsonrpc2.VSCodeObjectCodec{}), handler{})
		go func() {
			<-rpcConn.DisconnectNotify()
			log.Printf("rv32asm language server: connection #%d closed\n", id)
		}()
	}
}

type handler struct{}

func (h handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	util.LogF("rv32asm language server: received %s", req.Method)
	switch req.Method {
	case "initialize":
		handleInitialize(conn, req)
	case "textDocument/didOpen":
		documentOpenNotification(conn, req)
	case "textDocument/didChange":
		documentChangeNotification(conn, req)
	case "textDocument/didClose":
		documentCloseNotification(conn, req)
	case "textDocument/diagnostic":
		documentDiagnostics(conn, req)
	case "textDocument/hover":
		hoverRequest(conn, req)
	case "shutdown", "exit":
		conn.Reply(context.Background(), req.ID, nil)
		conn.Close()
	}
}

func handleInitialize(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := InitializeParams{}
	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1 // full document sync
	result.Capabilities.HoverProvider = true
	conn.Reply(context.Background(), req.ID, result)
}

func replyInvalidParams(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	rpcErr := jsonrpc2.Error{}
	rpcErr.SetError("invalid parameters")
	conn.ReplyWithError(context.Background(), req.ID, &rpcErr)
}

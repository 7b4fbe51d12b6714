// Package webservice exposes the assembler over a websocket so a browser
// front end can assemble without shipping the toolchain. Each text frame is a
// complete source unit; the reply is one JSON frame with the encoded words
// and any diagnostics.
package webservice

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/riscvtools/rv32asm/assembler"
	"github.com/riscvtools/rv32asm/util"
)

type AssembleReply struct {
	Words       []string               `json:"words"`
	Diagnostics []assembler.Diagnostic `json:"diagnostics"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// the service is meant for local development, so any origin may connect
	CheckOrigin: func(r *http.Request) bool { return true },
}

func ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/assemble", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("rv32asm webservice: upgrade failed: %v", err)
			return
		}
		go serveConnection(conn)
	})

	log.Println("rv32asm webservice: listening on", addr)
	return http.ListenAndServe(addr, mux)
}

func serveConnection(conn *websocket.Conn) {
	defer conn.Close()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		util.LogF("rv32asm webservice: assembling %d bytes", len(message))
		reply := assembleSource(string(message))
		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func assembleSource(source string) AssembleReply {
	res := assembler.Assemble(source)

	reply := AssembleReply{
		Words:       make([]string, 0, len(res.Text)),
		Diagnostics: res.Diagnostics,
	}
	if reply.Diagnostics == nil {
		reply.Diagnostics = make([]assembler.Diagnostic, 0)
	}
	if res.HasErrors() {
		return reply
	}

	for _, inst := range res.Text {
		reply.Words = append(reply.Words, fmt.Sprintf("%08x", inst.Word))
	}
	return reply
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/riscvtools/rv32asm/assembler"
	"github.com/riscvtools/rv32asm/languageServer"
	"github.com/riscvtools/rv32asm/util"
	"github.com/riscvtools/rv32asm/webservice"
)

func main() {
	if err := assembler.LoadConfigFile(); err != nil {
		log.Fatalln("Invalid rv32asmConfig.json:", err)
	}

	if len(os.Args) >= 3 && os.Args[1] == "assemble" {
		outPath := "a.bin"
		if len(os.Args) >= 4 {
			outPath = os.Args[3]
		}
		res := assembleFile(os.Args[2])
		if err := os.WriteFile(outPath, res.Bytes(), 0644); err != nil {
			log.Fatalf("Could not write %s: %v", outPath, err)
		}
	} else if len(os.Args) == 3 && os.Args[1] == "hexdump" {
		res := assembleFile(os.Args[2])
		fmt.Print(res.HexDump())
	} else if len(os.Args) == 3 && os.Args[1] == "symbols" {
		res := assembleFile(os.Args[2])
		for _, name := range res.Symbols.Names() {
			sym, _ := res.Symbols.Lookup(name)
			fmt.Printf("%08x %s\n", sym.Address, name)
		}
	} else if len(os.Args) >= 2 && os.Args[1] == "languageServer" {
		if len(os.Args) >= 3 && os.Args[2] == "debug" {
			util.LoggingEnabled = true
		}
		languageServer.ListenAndServe()
	} else if len(os.Args) >= 2 && os.Args[1] == "serve" {
		addr := ":2035"
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		log.Fatalln(webservice.ListenAndServe(addr))
	} else if len(os.Args) == 1 {
		// tcp mode so the server can be debugged remotely
		languageServer.ListenAndServeTCP(":2035")
	} else {
		log.Fatalln("Invalid arguments:", os.Args)
	}
}

func assembleFile(path string) *assembler.AssembledResult {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Could not read file %s: %v", path, err)
	}

	res := assembler.Assemble(string(b))
	for _, diag := range res.Diagnostics {
		severity := "warning"
		if diag.Severity == assembler.Error {
			severity = "error"
		}
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n",
			path, diag.Range.Start.Line+1, diag.Range.Start.Char, severity, diag.Message)
	}
	if res.HasErrors() {
		os.Exit(1)
	}
	return res
}

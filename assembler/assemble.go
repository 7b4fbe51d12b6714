package assembler

import (
	"encoding/json"
	"os"
)

var assemblerConfig AssemblerConfig

func GetConfig() AssemblerConfig {
	return assemblerConfig
}

func SetConfig(config AssemblerConfig) {
	assemblerConfig = config
}

// LoadConfigFile overlays rv32asmConfig.json from the working directory if it
// exists. Missing file is not an error; a malformed one is.
func LoadConfigFile() error {
	b, err := os.ReadFile("rv32asmConfig.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	config := assemblerConfig
	if err := json.Unmarshal(b, &config); err != nil {
		return err
	}
	assemblerConfig = config
	return nil
}

// Assemble runs the full pipeline on one source unit: tokenize and parse,
// expand pseudo-instructions, pass 1 (addresses and symbol table), pass 2
// (resolution and encoding). The run is atomic: the first error stops the
// pipeline and no words are produced. Warnings accumulate without stopping
// anything.
func Assemble(source string) *AssembledResult {
	res := &AssembledResult{}

	fail := func(diag *Diagnostic) *AssembledResult {
		res.Diagnostics = append(res.Diagnostics, *diag)
		return res
	}

	statements, warnings, diag := parseProgram(source)
	res.Diagnostics = append(res.Diagnostics, warnings...)
	if diag != nil {
		return fail(diag)
	}

	statements, diag = expandPseudos(statements)
	if diag != nil {
		return fail(diag)
	}

	prog := &Program{
		Statements: statements,
		Symbols:    NewSymbolTable(),
		Origin:     assemblerConfig.Origin,
	}
	res.Program = prog
	res.Symbols = prog.Symbols

	if diag = buildSymbolTable(prog); diag != nil {
		return fail(diag)
	}

	words, diag := encodeProgram(prog)
	if diag != nil {
		return fail(diag)
	}

	res.Text = words
	return res
}

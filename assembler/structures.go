package assembler

import "fmt"

type AssemblerConfig struct {
	Origin           uint32   `json:"origin"`
	SpecialRegisters []string `json:"specialRegisters"`
}

type TextPosition struct {
	Line int `json:"line"`
	Char int `json:"character"`
}

type TextRange struct {
	Start TextPosition `json:"start"`
	End   TextPosition `json:"end"`
}

type DiagnosticSeverity int

const (
	Error       DiagnosticSeverity = 1
	Warning     DiagnosticSeverity = 2
	Information DiagnosticSeverity = 3
	Hint        DiagnosticSeverity = 4
)

type ErrorKind string

const (
	KindLexError            ErrorKind = "LexError"
	KindSyntaxError         ErrorKind = "SyntaxError"
	KindUnknownMnemonic     ErrorKind = "UnknownMnemonic"
	KindUnknownRegister     ErrorKind = "UnknownRegister"
	KindDuplicateSymbol     ErrorKind = "DuplicateSymbol"
	KindUndefinedSymbol     ErrorKind = "UndefinedSymbol"
	KindImmediateOutOfRange ErrorKind = "ImmediateOutOfRange"
	KindBranchOutOfRange    ErrorKind = "BranchOutOfRange"
	KindMisalignedTarget    ErrorKind = "MisalignedTarget"
)

type Diagnostic struct {
	Kind     ErrorKind          `json:"kind,omitempty"`
	Range    TextRange          `json:"range"`
	Message  string             `json:"message"`
	Source   string             `json:"source,omitempty"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Range.Start.Line+1, d.Range.Start.Char, d.Message)
}

type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenRegister
	TokenImmediate
	TokenDirective
	TokenPunct
)

type Token struct {
	Kind  TokenKind
	Text  string
	Value int64  // immediates only
	Reg   uint32 // registers only
	Line  int
	Col   int
}

func (t Token) rang() TextRange {
	return TextRange{
		Start: TextPosition{Line: t.Line, Char: t.Col},
		End:   TextPosition{Line: t.Line, Char: t.Col + len(t.Text)},
	}
}

type StatementKind int

const (
	StmtInstruction StatementKind = iota
	StmtLabel
	StmtDirective
)

// SymbolPart selects which slice of a resolved symbol value an operand
// carries. Full references resolve to the whole address; the hi/lo parts are
// produced by the pseudo-instruction expander for lui+addi and auipc+jalr
// pairs.
type SymbolPart int

const (
	PartFull SymbolPart = iota
	PartHi
	PartLo
	PartPCRelHi
	PartPCRelLo
)

type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandSymbol
)

type Operand struct {
	Kind   OperandKind
	Reg    uint32
	Value  int32
	Symbol string
	Offset int32
	Part   SymbolPart
	Line   int
	Col    int
}

func (op Operand) rang() TextRange {
	length := 1
	if op.Kind == OperandSymbol {
		length = len(op.Symbol)
	}
	return TextRange{
		Start: TextPosition{Line: op.Line, Char: op.Col},
		End:   TextPosition{Line: op.Line, Char: op.Col + length},
	}
}

type Statement struct {
	Kind      StatementKind
	Mnemonic  string    // instructions
	Operands  []Operand // instructions
	Label     string    // label definitions
	Directive string    // directives, including the leading dot
	Args      []Operand // directive arguments
	Line      int
	Col       int
	Address   uint32 // assigned during pass 1
}

type EncodedInstruction struct {
	Address uint32
	Word    uint32
}

// Program owns the expanded statement sequence and the symbol table for the
// lifetime of one assembly run. Statement order never changes between the two
// passes.
type Program struct {
	Statements []Statement
	Symbols    *SymbolTable
	Origin     uint32
}

type AssembledResult struct {
	Program     *Program
	Text        []EncodedInstruction
	Symbols     *SymbolTable
	Diagnostics []Diagnostic
}

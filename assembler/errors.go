package assembler

import "fmt"

const diagnosticSource = "rv32asm"

type assemblyErrors struct{}

var Errors assemblyErrors

func newError(kind ErrorKind, msg string, r TextRange) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Range:    r,
		Message:  msg,
		Source:   diagnosticSource,
		Severity: Error,
	}
}

func (assemblyErrors) Lex(detail string, r TextRange) *Diagnostic {
	return newError(KindLexError, "malformed token: "+detail, r)
}

func (assemblyErrors) Syntax(detail string, r TextRange) *Diagnostic {
	return newError(KindSyntaxError, detail, r)
}

func (assemblyErrors) UnknownMnemonic(text string, r TextRange) *Diagnostic {
	return newError(KindUnknownMnemonic, fmt.Sprintf("unknown mnemonic %q", text), r)
}

func (assemblyErrors) UnknownRegister(text string, r TextRange) *Diagnostic {
	return newError(KindUnknownRegister, fmt.Sprintf("unknown register %q", text), r)
}

func (assemblyErrors) UnknownDirective(text string, r TextRange) *Diagnostic {
	return newError(KindSyntaxError, fmt.Sprintf("unknown directive %q", text), r)
}

func (assemblyErrors) WrongOperandCount(mnemonic string, want, got int, r TextRange) *Diagnostic {
	msg := fmt.Sprintf("%s expects %d operands, got %d", mnemonic, want, got)
	return newError(KindSyntaxError, msg, r)
}

func (assemblyErrors) DuplicateSymbol(name string, r TextRange) *Diagnostic {
	return newError(KindDuplicateSymbol, fmt.Sprintf("symbol %q is already defined", name), r)
}

func (assemblyErrors) UndefinedSymbol(name string, r TextRange) *Diagnostic {
	return newError(KindUndefinedSymbol, fmt.Sprintf("symbol %q is never defined", name), r)
}

func (assemblyErrors) ImmediateOutOfRange(value int64, width int, r TextRange) *Diagnostic {
	msg := fmt.Sprintf("immediate %d does not fit in a %d-bit field", value, width)
	return newError(KindImmediateOutOfRange, msg, r)
}

func (assemblyErrors) BranchOutOfRange(name string, delta int64, width int, r TextRange) *Diagnostic {
	msg := fmt.Sprintf("target %q is %d bytes away, outside the %d-bit branch range", name, delta, width)
	return newError(KindBranchOutOfRange, msg, r)
}

func (assemblyErrors) MisalignedTarget(name string, delta int64, r TextRange) *Diagnostic {
	msg := fmt.Sprintf("target %q is %d bytes away, which is not an even offset", name, delta)
	return newError(KindMisalignedTarget, msg, r)
}

func (assemblyErrors) MisalignedOrigin(origin uint32) *Diagnostic {
	msg := fmt.Sprintf("origin 0x%x is not a multiple of 4", origin)
	return newError(KindMisalignedTarget, msg, TextRange{})
}

// Warnings

type assemblyWarnings struct{}

var Warnings assemblyWarnings

func (assemblyWarnings) ModifyingSpecialRegister(register string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  fmt.Sprintf("register %q is reserved by the runtime convention and should not be written", register),
		Source:   diagnosticSource,
		Severity: Warning,
	}
}

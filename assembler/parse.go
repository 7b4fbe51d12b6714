package assembler

import (
	"slices"
	"strings"
)

type parser struct {
	tokens   []Token
	pos      int
	line     int
	warnings []Diagnostic
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) atPunct(text string) bool {
	tok, ok := p.peek()
	return ok && tok.Kind == TokenPunct && tok.Text == text
}

func (p *parser) endOfLine() TextRange {
	if len(p.tokens) == 0 {
		return TextRange{Start: TextPosition{Line: p.line}, End: TextPosition{Line: p.line}}
	}
	last := p.tokens[len(p.tokens)-1]
	end := TextPosition{Line: p.line, Char: last.Col + len(last.Text)}
	return TextRange{Start: end, End: end}
}

// parseProgram turns source text into the ordered statement sequence. It is
// purely syntactic: label references come out as unresolved symbol operands
// and no addresses exist yet.
func parseProgram(source string) ([]Statement, []Diagnostic, *Diagnostic) {
	var statements []Statement
	var warnings []Diagnostic

	for i, text := range strings.Split(source, "\n") {
		tokens, diag := tokenizeLine(text, i)
		if diag != nil {
			return nil, warnings, diag
		}

		p := &parser{tokens: tokens, line: i}
		stmts, diag := p.parseLine()
		if diag != nil {
			return nil, warnings, diag
		}
		statements = append(statements, stmts...)
		warnings = append(warnings, p.warnings...)
	}

	return statements, warnings, nil
}

func (p *parser) parseLine() ([]Statement, *Diagnostic) {
	var stmts []Statement

	// any number of leading "name:" label definitions
	for {
		tok, ok := p.peek()
		if !ok {
			return stmts, nil
		}
		if tok.Kind != TokenIdentifier || p.pos+1 >= len(p.tokens) ||
			p.tokens[p.pos+1].Kind != TokenPunct || p.tokens[p.pos+1].Text != ":" {
			break
		}
		stmts = append(stmts, Statement{Kind: StmtLabel, Label: tok.Text, Line: tok.Line, Col: tok.Col})
		p.pos += 2
	}

	tok, ok := p.peek()
	if !ok {
		return stmts, nil
	}

	switch tok.Kind {
	case TokenDirective:
		p.pos++
		st, diag := p.parseDirective(tok)
		if diag != nil {
			return nil, diag
		}
		stmts = append(stmts, st)
	case TokenIdentifier:
		p.pos++
		st, diag := p.parseInstruction(tok)
		if diag != nil {
			return nil, diag
		}
		stmts = append(stmts, st)
	case TokenRegister:
		return nil, Errors.Syntax("expected a mnemonic, got register "+tok.Text, tok.rang())
	default:
		return nil, Errors.Syntax("expected a mnemonic or directive, got "+tok.Text, tok.rang())
	}

	if extra, ok := p.peek(); ok {
		return nil, Errors.Syntax("unexpected trailing token "+extra.Text, extra.rang())
	}
	return stmts, nil
}

func (p *parser) parseDirective(tok Token) (Statement, *Diagnostic) {
	st := Statement{Kind: StmtDirective, Directive: tok.Text, Line: tok.Line, Col: tok.Col}

	switch tok.Text {
	case ".text":
		return st, nil
	case ".word":
		for {
			op, diag := p.parseOperand()
			if diag != nil {
				return st, diag
			}
			if op.Kind == OperandRegister {
				return st, Errors.Syntax(".word values must be immediates or symbols", op.rang())
			}
			st.Args = append(st.Args, op)
			if !p.atPunct(",") {
				break
			}
			p.pos++
		}
		if len(st.Args) == 0 {
			return st, Errors.Syntax(".word expects at least one value", tok.rang())
		}
		return st, nil
	default:
		return st, Errors.UnknownDirective(tok.Text, tok.rang())
	}
}

func (p *parser) parseInstruction(tok Token) (Statement, *Diagnostic) {
	mnemonic := tok.Text
	_, base := InstrTable[mnemonic]
	if !base && !isPseudoMnemonic(mnemonic) {
		return Statement{}, Errors.UnknownMnemonic(mnemonic, tok.rang())
	}

	st := Statement{Kind: StmtInstruction, Mnemonic: mnemonic, Line: tok.Line, Col: tok.Col}
	if _, ok := p.peek(); ok {
		for {
			op, diag := p.parseOperand()
			if diag != nil {
				return st, diag
			}
			st.Operands = append(st.Operands, op)

			if p.atPunct("(") {
				// imm(rs1) memory notation: the base register becomes the
				// trailing operand
				p.pos++
				base, diag := p.expectRegister()
				if diag != nil {
					return st, diag
				}
				if !p.atPunct(")") {
					return st, Errors.Syntax("expected ')' after base register", p.endOfLine())
				}
				p.pos++
				st.Operands = append(st.Operands, base)
			}

			if !p.atPunct(",") {
				break
			}
			p.pos++
		}
	}

	// jal and jalr have single-operand pseudo forms handled by the expander
	pseudoForm := (mnemonic == "jal" || mnemonic == "jalr") && len(st.Operands) == 1
	if base && !pseudoForm {
		if diag := validateShape(&st); diag != nil {
			return st, diag
		}
	}
	p.checkSpecialRegister(&st)
	return st, nil
}

func (p *parser) parseOperand() (Operand, *Diagnostic) {
	tok, ok := p.next()
	if !ok {
		return Operand{}, Errors.Syntax("expected an operand", p.endOfLine())
	}

	switch tok.Kind {
	case TokenRegister:
		return Operand{Kind: OperandRegister, Reg: tok.Reg, Line: tok.Line, Col: tok.Col}, nil

	case TokenImmediate:
		return Operand{Kind: OperandImmediate, Value: int32(uint32(tok.Value)), Line: tok.Line, Col: tok.Col}, nil

	case TokenIdentifier:
		op := Operand{Kind: OperandSymbol, Symbol: tok.Text, Line: tok.Line, Col: tok.Col}
		// optional arithmetic offset: name+imm or name-imm
		if p.atPunct("+") {
			p.pos++
			off, ok := p.next()
			if !ok || off.Kind != TokenImmediate {
				return op, Errors.Syntax("expected an offset after '+'", p.endOfLine())
			}
			op.Offset = int32(off.Value)
		} else if next, ok := p.peek(); ok && next.Kind == TokenImmediate && next.Value < 0 {
			p.pos++
			op.Offset = int32(next.Value)
		}
		return op, nil

	default:
		return Operand{}, Errors.Syntax("unexpected token "+tok.Text+" in operand position", tok.rang())
	}
}

func (p *parser) expectRegister() (Operand, *Diagnostic) {
	tok, ok := p.next()
	if !ok {
		return Operand{}, Errors.Syntax("expected a register", p.endOfLine())
	}
	if tok.Kind == TokenIdentifier {
		return Operand{}, Errors.UnknownRegister(tok.Text, tok.rang())
	}
	if tok.Kind != TokenRegister {
		return Operand{}, Errors.Syntax("expected a register, got "+tok.Text, tok.rang())
	}
	return Operand{Kind: OperandRegister, Reg: tok.Reg, Line: tok.Line, Col: tok.Col}, nil
}

// operand shape per format, checked at parse time so later passes can assume
// well-formed statements
func validateShape(st *Statement) *Diagnostic {
	desc := InstrTable[st.Mnemonic]
	r := TextRange{
		Start: TextPosition{Line: st.Line, Char: st.Col},
		End:   TextPosition{Line: st.Line, Char: st.Col + len(st.Mnemonic)},
	}

	want := map[InstrFormat]int{
		FormatR: 3, FormatI: 3, FormatLoad: 3, FormatS: 3,
		FormatB: 3, FormatU: 2, FormatJ: 2, FormatSystem: 0, FormatFence: 0,
	}[desc.Format]
	if len(st.Operands) != want {
		return Errors.WrongOperandCount(st.Mnemonic, want, len(st.Operands), r)
	}

	requireRegister := func(i int) *Diagnostic {
		op := st.Operands[i]
		if op.Kind == OperandSymbol {
			return Errors.UnknownRegister(op.Symbol, op.rang())
		}
		if op.Kind != OperandRegister {
			return Errors.Syntax(st.Mnemonic+" expects a register operand", op.rang())
		}
		return nil
	}
	requireValue := func(i int) *Diagnostic {
		op := st.Operands[i]
		if op.Kind == OperandRegister {
			return Errors.Syntax(st.Mnemonic+" expects an immediate or symbol operand", op.rang())
		}
		return nil
	}

	var checks []*Diagnostic
	switch desc.Format {
	case FormatR:
		checks = []*Diagnostic{requireRegister(0), requireRegister(1), requireRegister(2)}
	case FormatI:
		checks = []*Diagnostic{requireRegister(0), requireRegister(1), requireValue(2)}
	case FormatLoad, FormatS:
		// rd/rs2, imm, base — memory notation already reordered by the parser
		checks = []*Diagnostic{requireRegister(0), requireValue(1), requireRegister(2)}
	case FormatB:
		checks = []*Diagnostic{requireRegister(0), requireRegister(1), requireValue(2)}
	case FormatU, FormatJ:
		checks = []*Diagnostic{requireRegister(0), requireValue(1)}
	}
	for _, diag := range checks {
		if diag != nil {
			return diag
		}
	}
	return nil
}

func (p *parser) checkSpecialRegister(st *Statement) {
	if len(assemblerConfig.SpecialRegisters) == 0 || len(st.Operands) == 0 {
		return
	}
	if !writesDestination(st.Mnemonic) {
		return
	}
	op := st.Operands[0]
	if op.Kind != OperandRegister || op.Reg == 0 {
		return
	}
	for name, index := range RegisterNameMap {
		if index == op.Reg && slices.Contains(assemblerConfig.SpecialRegisters, name) {
			p.warnings = append(p.warnings, Warnings.ModifyingSpecialRegister(name, op.rang()))
			return
		}
	}
}

package assembler

import "fmt"

// EvaluateHover returns markdown for the entity under the cursor: label
// definitions and symbol operands show the resolved address, instructions
// show their encoded word. The second return is false when there is nothing
// to show.
func (a *AssembledResult) EvaluateHover(position TextPosition) (string, bool) {
	if a.Program == nil {
		return "", false
	}

	within := func(col, length int) bool {
		return position.Char >= col && position.Char < col+length
	}

	for i := range a.Program.Statements {
		st := &a.Program.Statements[i]
		if st.Line != position.Line {
			continue
		}

		switch st.Kind {
		case StmtLabel:
			if !within(st.Col, len(st.Label)) {
				continue
			}
			if sym, ok := a.Symbols.Lookup(st.Label); ok && sym.Defined {
				return fmt.Sprintf("**%s**\n\nAddress `0x%08x`", st.Label, sym.Address), true
			}

		case StmtInstruction:
			for _, op := range st.Operands {
				if op.Kind != OperandSymbol || !within(op.Col, len(op.Symbol)) {
					continue
				}
				if sym, ok := a.Symbols.Lookup(op.Symbol); ok && sym.Defined {
					return fmt.Sprintf("**%s**\n\nAddress `0x%08x`", op.Symbol, sym.Address), true
				}
			}
			if within(st.Col, len(st.Mnemonic)) {
				if word, ok := a.wordAt(st.Address); ok {
					return fmt.Sprintf("`%s` at `0x%08x`\n\nEncoding `0x%08x`", st.Mnemonic, st.Address, word), true
				}
			}
		}
	}

	return "", false
}

func (a *AssembledResult) wordAt(address uint32) (uint32, bool) {
	for _, inst := range a.Text {
		if inst.Address == address {
			return inst.Word, true
		}
	}
	return 0, false
}

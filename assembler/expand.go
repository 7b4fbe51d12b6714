package assembler

// The expander rewrites every pseudo-instruction into one or two base
// instructions before any addresses are assigned. Expansion is deterministic
// and address-independent, so pass 1 can rely on stable statement sizes.
//
// Policy notes:
//   - li always emits the two-instruction lui+addi form when the value does
//     not fit 12 signed bits, even when the low half is zero.
//   - call and tail always emit the two-instruction auipc+jalr form. The
//     jalr low half is resolved against the address of the auipc one word
//     earlier.

func isPseudoMnemonic(m string) bool {
	switch m {
	case "nop", "mv", "not", "neg", "seqz", "snez", "sltz", "sgtz",
		"li", "la", "j", "jr", "ret", "call", "tail",
		"beqz", "bnez", "blez", "bgez", "bltz", "bgtz",
		"bgt", "ble", "bgtu", "bleu":
		return true
	}
	// jal and jalr have single-operand pseudo forms on top of their base forms
	return false
}

// expandPseudos maps the parsed statement sequence to the base-instruction
// sequence. Non-pseudo statements pass through unchanged.
func expandPseudos(stmts []Statement) ([]Statement, *Diagnostic) {
	expanded := make([]Statement, 0, len(stmts))
	for _, st := range stmts {
		if st.Kind != StmtInstruction {
			expanded = append(expanded, st)
			continue
		}
		repl, diag := expandInstruction(st)
		if diag != nil {
			return nil, diag
		}
		expanded = append(expanded, repl...)
	}
	return expanded, nil
}

func expandInstruction(st Statement) ([]Statement, *Diagnostic) {
	// shorthand constructors; every replacement keeps the source position of
	// the original statement for error reporting
	inst := func(mnemonic string, ops ...Operand) Statement {
		return Statement{Kind: StmtInstruction, Mnemonic: mnemonic, Operands: ops, Line: st.Line, Col: st.Col}
	}
	reg := func(index uint32) Operand {
		return Operand{Kind: OperandRegister, Reg: index, Line: st.Line, Col: st.Col}
	}
	imm := func(value int32) Operand {
		return Operand{Kind: OperandImmediate, Value: value, Line: st.Line, Col: st.Col}
	}
	part := func(op Operand, p SymbolPart) Operand {
		op.Part = p
		return op
	}

	mnemonicRange := TextRange{
		Start: TextPosition{Line: st.Line, Char: st.Col},
		End:   TextPosition{Line: st.Line, Char: st.Col + len(st.Mnemonic)},
	}
	arity := func(want int) *Diagnostic {
		if len(st.Operands) != want {
			return Errors.WrongOperandCount(st.Mnemonic, want, len(st.Operands), mnemonicRange)
		}
		return nil
	}
	needReg := func(i int) *Diagnostic {
		op := st.Operands[i]
		if op.Kind == OperandSymbol {
			return Errors.UnknownRegister(op.Symbol, op.rang())
		}
		if op.Kind != OperandRegister {
			return Errors.Syntax(st.Mnemonic+" expects a register operand", op.rang())
		}
		return nil
	}
	needValue := func(i int) *Diagnostic {
		if st.Operands[i].Kind == OperandRegister {
			return Errors.Syntax(st.Mnemonic+" expects an immediate or symbol operand", st.Operands[i].rang())
		}
		return nil
	}

	twoRegs := func() *Diagnostic {
		if diag := arity(2); diag != nil {
			return diag
		}
		if diag := needReg(0); diag != nil {
			return diag
		}
		return needReg(1)
	}
	branchZero := func(base string, zeroFirst bool) ([]Statement, *Diagnostic) {
		if diag := arity(2); diag != nil {
			return nil, diag
		}
		if diag := needReg(0); diag != nil {
			return nil, diag
		}
		if diag := needValue(1); diag != nil {
			return nil, diag
		}
		if zeroFirst {
			return []Statement{inst(base, reg(0), st.Operands[0], st.Operands[1])}, nil
		}
		return []Statement{inst(base, st.Operands[0], reg(0), st.Operands[1])}, nil
	}
	branchSwapped := func(base string) ([]Statement, *Diagnostic) {
		if diag := arity(3); diag != nil {
			return nil, diag
		}
		if diag := needReg(0); diag != nil {
			return nil, diag
		}
		if diag := needReg(1); diag != nil {
			return nil, diag
		}
		if diag := needValue(2); diag != nil {
			return nil, diag
		}
		return []Statement{inst(base, st.Operands[1], st.Operands[0], st.Operands[2])}, nil
	}

	switch st.Mnemonic {
	case "nop":
		if diag := arity(0); diag != nil {
			return nil, diag
		}
		return []Statement{inst("addi", reg(0), reg(0), imm(0))}, nil

	case "mv":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("addi", st.Operands[0], st.Operands[1], imm(0))}, nil

	case "not":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("xori", st.Operands[0], st.Operands[1], imm(-1))}, nil

	case "neg":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("sub", st.Operands[0], reg(0), st.Operands[1])}, nil

	case "seqz":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("sltiu", st.Operands[0], st.Operands[1], imm(1))}, nil

	case "snez":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("sltu", st.Operands[0], reg(0), st.Operands[1])}, nil

	case "sltz":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("slt", st.Operands[0], st.Operands[1], reg(0))}, nil

	case "sgtz":
		if diag := twoRegs(); diag != nil {
			return nil, diag
		}
		return []Statement{inst("slt", st.Operands[0], reg(0), st.Operands[1])}, nil

	case "li":
		if diag := arity(2); diag != nil {
			return nil, diag
		}
		if diag := needReg(0); diag != nil {
			return nil, diag
		}
		op := st.Operands[1]
		if op.Kind != OperandImmediate {
			return nil, Errors.Syntax("li expects an immediate value; use la for symbols", op.rang())
		}
		if op.Value >= -2048 && op.Value <= 2047 {
			return []Statement{inst("addi", st.Operands[0], reg(0), imm(op.Value))}, nil
		}
		hi, lo := splitHiLo(op.Value)
		return []Statement{
			inst("lui", st.Operands[0], imm(int32(hi))),
			inst("addi", st.Operands[0], st.Operands[0], imm(lo)),
		}, nil

	case "la":
		if diag := arity(2); diag != nil {
			return nil, diag
		}
		if diag := needReg(0); diag != nil {
			return nil, diag
		}
		op := st.Operands[1]
		if op.Kind != OperandSymbol {
			return nil, Errors.Syntax("la expects a symbol operand", op.rang())
		}
		return []Statement{
			inst("lui", st.Operands[0], part(op, PartHi)),
			inst("addi", st.Operands[0], st.Operands[0], part(op, PartLo)),
		}, nil

	case "j":
		if diag := arity(1); diag != nil {
			return nil, diag
		}
		if diag := needValue(0); diag != nil {
			return nil, diag
		}
		return []Statement{inst("jal", reg(0), st.Operands[0])}, nil

	case "jal":
		if len(st.Operands) == 1 {
			if diag := needValue(0); diag != nil {
				return nil, diag
			}
			return []Statement{inst("jal", reg(1), st.Operands[0])}, nil
		}
		return []Statement{st}, nil

	case "jr":
		if diag := arity(1); diag != nil {
			return nil, diag
		}
		if diag := needReg(0); diag != nil {
			return nil, diag
		}
		return []Statement{inst("jalr", reg(0), st.Operands[0], imm(0))}, nil

	case "jalr":
		if len(st.Operands) == 1 {
			if diag := needReg(0); diag != nil {
				return nil, diag
			}
			return []Statement{inst("jalr", reg(1), st.Operands[0], imm(0))}, nil
		}
		return []Statement{st}, nil

	case "ret":
		if diag := arity(0); diag != nil {
			return nil, diag
		}
		return []Statement{inst("jalr", reg(0), reg(1), imm(0))}, nil

	case "call":
		if diag := arity(1); diag != nil {
			return nil, diag
		}
		if diag := needValue(0); diag != nil {
			return nil, diag
		}
		op := st.Operands[0]
		return []Statement{
			inst("auipc", reg(1), part(op, PartPCRelHi)),
			inst("jalr", reg(1), reg(1), part(op, PartPCRelLo)),
		}, nil

	case "tail":
		if diag := arity(1); diag != nil {
			return nil, diag
		}
		if diag := needValue(0); diag != nil {
			return nil, diag
		}
		op := st.Operands[0]
		return []Statement{
			inst("auipc", reg(6), part(op, PartPCRelHi)),
			inst("jalr", reg(0), reg(6), part(op, PartPCRelLo)),
		}, nil

	case "beqz":
		return branchZero("beq", false)
	case "bnez":
		return branchZero("bne", false)
	case "blez":
		return branchZero("bge", true)
	case "bgez":
		return branchZero("bge", false)
	case "bltz":
		return branchZero("blt", false)
	case "bgtz":
		return branchZero("blt", true)

	case "bgt":
		return branchSwapped("blt")
	case "ble":
		return branchSwapped("bge")
	case "bgtu":
		return branchSwapped("bltu")
	case "bleu":
		return branchSwapped("bgeu")

	default:
		return []Statement{st}, nil
	}
}

// splitHiLo splits a 32-bit value into a 20-bit upper half and a signed
// 12-bit lower half such that (hi<<12)+signextend(lo) reconstructs the value.
// When bit 11 is set the upper half absorbs a carry to compensate for the
// sign extension of the lower half.
func splitHiLo(value int32) (hi uint32, lo int32) {
	hi = uint32(int64(value)+0x800) >> 12 & 0xFFFFF
	lo = value - int32(hi<<12)
	return hi, lo
}

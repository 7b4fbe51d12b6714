package assembler

// Pass 2. Walks the statement sequence in the same order as pass 1, resolves
// every symbol and immediate operand to a numeric value, range-checks it
// against the target field and packs the instruction word.

func encodeProgram(prog *Program) ([]EncodedInstruction, *Diagnostic) {
	var out []EncodedInstruction

	for i := range prog.Statements {
		st := &prog.Statements[i]
		switch st.Kind {
		case StmtInstruction:
			word, diag := encodeInstruction(prog, st)
			if diag != nil {
				return nil, diag
			}
			out = append(out, EncodedInstruction{Address: st.Address, Word: word})

		case StmtDirective:
			if st.Directive != ".word" {
				continue
			}
			for j, op := range st.Args {
				value, diag := resolveValue(prog, op)
				if diag != nil {
					return nil, diag
				}
				addr := st.Address + 4*uint32(j)
				out = append(out, EncodedInstruction{Address: addr, Word: uint32(value)})
			}
		}
	}

	return out, nil
}

// resolveValue produces the raw numeric value of an immediate or symbol
// operand, applying the hi/lo or pc-relative adjustment the expander tagged
// it with. PC-relative parts resolve against base.
func resolveValue(prog *Program, op Operand) (int64, *Diagnostic) {
	if op.Kind == OperandImmediate {
		return int64(op.Value), nil
	}

	sym, ok := prog.Symbols.Lookup(op.Symbol)
	if !ok || !sym.Defined {
		return 0, Errors.UndefinedSymbol(op.Symbol, op.rang())
	}
	return int64(sym.Address) + int64(op.Offset), nil
}

func resolvePart(value int64, part SymbolPart, base uint32) int64 {
	switch part {
	case PartHi:
		hi, _ := splitHiLo(int32(value))
		return int64(hi)
	case PartLo:
		_, lo := splitHiLo(int32(value))
		return int64(lo)
	case PartPCRelHi:
		hi, _ := splitHiLo(int32(value - int64(base)))
		return int64(hi)
	case PartPCRelLo:
		_, lo := splitHiLo(int32(value - int64(base)))
		return int64(lo)
	default:
		return value
	}
}

func encodeInstruction(prog *Program, st *Statement) (uint32, *Diagnostic) {
	desc := InstrTable[st.Mnemonic]
	ops := st.Operands

	switch desc.Format {
	case FormatR:
		return packR(desc.Opcode, ops[0].Reg, ops[1].Reg, ops[2].Reg, desc.Funct3, desc.Funct7), nil

	case FormatI:
		imm, diag := resolveImmOperand(prog, st, ops[2])
		if diag != nil {
			return 0, diag
		}
		if desc.Shamt {
			if imm < 0 || imm > 31 {
				return 0, Errors.ImmediateOutOfRange(imm, 5, ops[2].rang())
			}
			return packI(desc.Opcode, ops[0].Reg, ops[1].Reg, desc.Funct3, uint32(imm)|desc.Funct7<<5), nil
		}
		if imm < -2048 || imm > 2047 {
			return 0, Errors.ImmediateOutOfRange(imm, 12, ops[2].rang())
		}
		return packI(desc.Opcode, ops[0].Reg, ops[1].Reg, desc.Funct3, uint32(imm)), nil

	case FormatLoad:
		imm, diag := resolveImmOperand(prog, st, ops[1])
		if diag != nil {
			return 0, diag
		}
		if imm < -2048 || imm > 2047 {
			return 0, Errors.ImmediateOutOfRange(imm, 12, ops[1].rang())
		}
		return packI(desc.Opcode, ops[0].Reg, ops[2].Reg, desc.Funct3, uint32(imm)), nil

	case FormatS:
		imm, diag := resolveImmOperand(prog, st, ops[1])
		if diag != nil {
			return 0, diag
		}
		if imm < -2048 || imm > 2047 {
			return 0, Errors.ImmediateOutOfRange(imm, 12, ops[1].rang())
		}
		return packS(desc.Opcode, ops[2].Reg, ops[0].Reg, desc.Funct3, uint32(imm)), nil

	case FormatB:
		delta, diag := resolveTarget(prog, st, ops[2], 13)
		if diag != nil {
			return 0, diag
		}
		return packB(desc.Opcode, ops[0].Reg, ops[1].Reg, desc.Funct3, uint32(delta)), nil

	case FormatU:
		imm, diag := resolveImmOperand(prog, st, ops[1])
		if diag != nil {
			return 0, diag
		}
		if imm < 0 || imm > 0xFFFFF {
			return 0, Errors.ImmediateOutOfRange(imm, 20, ops[1].rang())
		}
		return packU(desc.Opcode, ops[0].Reg, uint32(imm)), nil

	case FormatJ:
		delta, diag := resolveTarget(prog, st, ops[1], 21)
		if diag != nil {
			return 0, diag
		}
		return packJ(desc.Opcode, ops[0].Reg, uint32(delta)), nil

	case FormatSystem:
		return packI(desc.Opcode, 0, 0, desc.Funct3, desc.SysImm), nil

	case FormatFence:
		// fence iorw, iorw; the only fence this assembler emits
		return packI(desc.Opcode, 0, 0, 0, 0x0FF), nil
	}

	r := TextRange{
		Start: TextPosition{Line: st.Line, Char: st.Col},
		End:   TextPosition{Line: st.Line, Char: st.Col + len(st.Mnemonic)},
	}
	return 0, Errors.UnknownMnemonic(st.Mnemonic, r)
}

// resolveImmOperand handles non-PC-relative value operands: literal
// immediates, absolute symbol addresses and the hi/lo and pcrel parts planted
// by the expander.
func resolveImmOperand(prog *Program, st *Statement, op Operand) (int64, *Diagnostic) {
	value, diag := resolveValue(prog, op)
	if diag != nil {
		return 0, diag
	}
	if op.Kind != OperandSymbol {
		return value, nil
	}

	// the pcrel low half pairs with the auipc one word earlier
	base := st.Address
	if op.Part == PartPCRelLo {
		base -= 4
	}
	return resolvePart(value, op.Part, base), nil
}

// resolveTarget produces the PC-relative byte delta for branch and jump
// instructions. Symbol targets resolve to symbol.address - pc; literal
// immediates are taken as the delta itself. Deltas must be even and fit the
// signed field width (13 bits for branches, 21 for jal), counting the
// implicit zero bit.
func resolveTarget(prog *Program, st *Statement, op Operand, width int) (int64, *Diagnostic) {
	value, diag := resolveValue(prog, op)
	if diag != nil {
		return 0, diag
	}

	delta := value
	name := op.Symbol
	if op.Kind == OperandSymbol {
		delta = value - int64(st.Address)
	}

	if delta%2 != 0 {
		return 0, Errors.MisalignedTarget(name, delta, op.rang())
	}

	limit := int64(1) << (width - 1)
	if delta >= limit || delta < -limit {
		if op.Kind == OperandSymbol {
			return 0, Errors.BranchOutOfRange(name, delta, width, op.rang())
		}
		return 0, Errors.ImmediateOutOfRange(delta, width, op.rang())
	}
	return delta, nil
}

package assembler

import "fmt"

type InstrFormat int

const (
	FormatR InstrFormat = iota
	FormatI
	FormatLoad // I-format with imm(rs1) memory notation
	FormatS
	FormatB
	FormatU
	FormatJ
	FormatSystem // ecall, ebreak
	FormatFence
)

// InstrDesc holds the fixed field constants for one base instruction. For the
// shift-immediate instructions Funct7 occupies imm[11:5]; for the system
// instructions SysImm is the full 12-bit immediate.
type InstrDesc struct {
	Format InstrFormat
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
	SysImm uint32
	Shamt  bool
}

// InstrTable covers the 40 instructions of the RV32I base set. It is the
// single source of truth for encoding constants; the per-format packers in
// codeGen.go only move bits, never pick them.
var InstrTable = map[string]InstrDesc{
	"lui":   {Format: FormatU, Opcode: 0b0110111},
	"auipc": {Format: FormatU, Opcode: 0b0010111},

	"jal":  {Format: FormatJ, Opcode: 0b1101111},
	"jalr": {Format: FormatI, Opcode: 0b1100111, Funct3: 0b000},

	"beq":  {Format: FormatB, Opcode: 0b1100011, Funct3: 0b000},
	"bne":  {Format: FormatB, Opcode: 0b1100011, Funct3: 0b001},
	"blt":  {Format: FormatB, Opcode: 0b1100011, Funct3: 0b100},
	"bge":  {Format: FormatB, Opcode: 0b1100011, Funct3: 0b101},
	"bltu": {Format: FormatB, Opcode: 0b1100011, Funct3: 0b110},
	"bgeu": {Format: FormatB, Opcode: 0b1100011, Funct3: 0b111},

	"lb":  {Format: FormatLoad, Opcode: 0b0000011, Funct3: 0b000},
	"lh":  {Format: FormatLoad, Opcode: 0b0000011, Funct3: 0b001},
	"lw":  {Format: FormatLoad, Opcode: 0b0000011, Funct3: 0b010},
	"lbu": {Format: FormatLoad, Opcode: 0b0000011, Funct3: 0b100},
	"lhu": {Format: FormatLoad, Opcode: 0b0000011, Funct3: 0b101},

	"sb": {Format: FormatS, Opcode: 0b0100011, Funct3: 0b000},
	"sh": {Format: FormatS, Opcode: 0b0100011, Funct3: 0b001},
	"sw": {Format: FormatS, Opcode: 0b0100011, Funct3: 0b010},

	"addi":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b000},
	"slti":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b010},
	"sltiu": {Format: FormatI, Opcode: 0b0010011, Funct3: 0b011},
	"xori":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b100},
	"ori":   {Format: FormatI, Opcode: 0b0010011, Funct3: 0b110},
	"andi":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b111},
	"slli":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b001, Shamt: true},
	"srli":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b101, Shamt: true},
	"srai":  {Format: FormatI, Opcode: 0b0010011, Funct3: 0b101, Funct7: 0b0100000, Shamt: true},

	"add":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b000},
	"sub":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b000, Funct7: 0b0100000},
	"sll":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b001},
	"slt":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b010},
	"sltu": {Format: FormatR, Opcode: 0b0110011, Funct3: 0b011},
	"xor":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b100},
	"srl":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b101},
	"sra":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b101, Funct7: 0b0100000},
	"or":   {Format: FormatR, Opcode: 0b0110011, Funct3: 0b110},
	"and":  {Format: FormatR, Opcode: 0b0110011, Funct3: 0b111},

	"fence":  {Format: FormatFence, Opcode: 0b0001111},
	"ecall":  {Format: FormatSystem, Opcode: 0b1110011, SysImm: 0},
	"ebreak": {Format: FormatSystem, Opcode: 0b1110011, SysImm: 1},
}

// RegisterNameMap accepts both the architectural x0-x31 names and the ABI
// aliases. s0 and fp are the same register.
var RegisterNameMap = map[string]uint32{}

func init() {
	abiNames := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2",
		"s0", "s1",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"t3", "t4", "t5", "t6",
	}
	for i, name := range abiNames {
		RegisterNameMap[name] = uint32(i)
		RegisterNameMap[fmt.Sprintf("x%d", i)] = uint32(i)
	}
	RegisterNameMap["fp"] = 8
}

// writesDestination reports whether the first operand of the mnemonic is a
// destination register. Used for the special-register warning only.
func writesDestination(mnemonic string) bool {
	if desc, ok := InstrTable[mnemonic]; ok {
		switch desc.Format {
		case FormatR, FormatI, FormatLoad, FormatU, FormatJ:
			return true
		}
		return false
	}
	switch mnemonic {
	case "mv", "li", "la", "not", "neg", "seqz", "snez", "sltz", "sgtz":
		return true
	}
	return false
}

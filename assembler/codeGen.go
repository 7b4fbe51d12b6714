package assembler

// Per-format bit packers and their decoding counterparts. The split immediate
// layouts of the S, B and J formats are mandated by the ISA; every function
// here is a pure shift-and-mask reordering with no instruction knowledge.

func packR(opcode, rd, rs1, rs2, funct3, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func packI(opcode, rd, rs1, funct3, imm uint32) uint32 {
	return (imm&0xFFF)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func packS(opcode, rs1, rs2, funct3, imm uint32) uint32 {
	imm &= 0xFFF
	return imm>>5<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (imm&0x1F)<<7 | opcode
}

// packB takes the byte offset directly; bit 0 is discarded by the layout.
func packB(opcode, rs1, rs2, funct3, imm uint32) uint32 {
	imm &= 0x1FFF
	word := rs2<<20 | rs1<<15 | funct3<<12 | opcode
	word |= imm >> 12 & 0x1 << 31
	word |= imm >> 5 & 0x3F << 25
	word |= imm >> 1 & 0xF << 8
	word |= imm >> 11 & 0x1 << 7
	return word
}

func packU(opcode, rd, imm uint32) uint32 {
	return imm&0xFFFFF<<12 | rd<<7 | opcode
}

// packJ takes the byte offset directly, like packB.
func packJ(opcode, rd, imm uint32) uint32 {
	imm &= 0x1FFFFF
	word := rd<<7 | opcode
	word |= imm >> 20 & 0x1 << 31
	word |= imm >> 1 & 0x3FF << 21
	word |= imm >> 11 & 0x1 << 20
	word |= imm >> 12 & 0xFF << 12
	return word
}

func opcodeOf(word uint32) uint32 {
	return word & 0x7F
}

func unpackR(word uint32) (opcode, rd, rs1, rs2, funct3, funct7 uint32) {
	opcode = word & 0x7F
	rd = word >> 7 & 0x1F
	funct3 = word >> 12 & 0x7
	rs1 = word >> 15 & 0x1F
	rs2 = word >> 20 & 0x1F
	funct7 = word >> 25 & 0x7F
	return
}

func unpackI(word uint32) (opcode, rd, rs1, funct3, imm uint32) {
	opcode = word & 0x7F
	rd = word >> 7 & 0x1F
	funct3 = word >> 12 & 0x7
	rs1 = word >> 15 & 0x1F
	imm = word >> 20 & 0xFFF
	return
}

func unpackS(word uint32) (opcode, rs1, rs2, funct3, imm uint32) {
	opcode = word & 0x7F
	funct3 = word >> 12 & 0x7
	rs1 = word >> 15 & 0x1F
	rs2 = word >> 20 & 0x1F
	imm = word>>25&0x7F<<5 | word>>7&0x1F
	return
}

func unpackB(word uint32) (opcode, rs1, rs2, funct3, imm uint32) {
	opcode = word & 0x7F
	funct3 = word >> 12 & 0x7
	rs1 = word >> 15 & 0x1F
	rs2 = word >> 20 & 0x1F
	imm = word >> 31 & 0x1 << 12
	imm |= word >> 7 & 0x1 << 11
	imm |= word >> 25 & 0x3F << 5
	imm |= word >> 8 & 0xF << 1
	return
}

func unpackU(word uint32) (opcode, rd, imm uint32) {
	opcode = word & 0x7F
	rd = word >> 7 & 0x1F
	imm = word >> 12 & 0xFFFFF
	return
}

func unpackJ(word uint32) (opcode, rd, imm uint32) {
	opcode = word & 0x7F
	rd = word >> 7 & 0x1F
	imm = word >> 31 & 0x1 << 20
	imm |= word >> 21 & 0x3FF << 1
	imm |= word >> 20 & 0x1 << 11
	imm |= word >> 12 & 0xFF << 12
	return
}

// signExtend interprets the low width bits of v as a signed quantity.
func signExtend(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}

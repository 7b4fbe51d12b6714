package assembler

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Format packers", func() {
	It("packs R-format fields into disjoint bit groups", func() {
		word := packR(0b0110011, 3, 1, 2, 0b000, 0b0000000)
		opcode, rd, rs1, rs2, funct3, funct7 := unpackR(word)
		Expect(opcode).To(Equal(uint32(0b0110011)))
		Expect(rd).To(Equal(uint32(3)))
		Expect(rs1).To(Equal(uint32(1)))
		Expect(rs2).To(Equal(uint32(2)))
		Expect(funct3).To(Equal(uint32(0)))
		Expect(funct7).To(Equal(uint32(0)))
	})

	It("round-trips the I-format immediate", func() {
		for _, imm := range []int32{-2048, -1, 0, 1, 2047} {
			word := packI(0b0010011, 1, 2, 0b000, uint32(imm))
			_, _, _, _, raw := unpackI(word)
			Expect(signExtend(raw, 12)).To(Equal(imm), "imm %d", imm)
		}
	})

	It("round-trips the split S-format immediate", func() {
		for _, imm := range []int32{-2048, -33, 0, 42, 2047} {
			word := packS(0b0100011, 1, 2, 0b010, uint32(imm))
			_, rs1, rs2, _, raw := unpackS(word)
			Expect(rs1).To(Equal(uint32(1)))
			Expect(rs2).To(Equal(uint32(2)))
			Expect(signExtend(raw, 12)).To(Equal(imm), "imm %d", imm)
		}
	})

	It("round-trips the split B-format byte offset", func() {
		for _, delta := range []int32{-4096, -8, 0, 8, 2050, 4094} {
			word := packB(0b1100011, 1, 2, 0b000, uint32(delta))
			_, _, _, _, raw := unpackB(word)
			Expect(signExtend(raw, 13)).To(Equal(delta), "delta %d", delta)
		}
	})

	It("round-trips the split J-format byte offset", func() {
		for _, delta := range []int32{-1048576, -4, 0, 8, 80000, 1048574} {
			word := packJ(0b1101111, 0, uint32(delta))
			_, rd, raw := unpackJ(word)
			Expect(rd).To(Equal(uint32(0)))
			Expect(signExtend(raw, 21)).To(Equal(delta), "delta %d", delta)
		}
	})

	It("places the U-format immediate in the top 20 bits", func() {
		word := packU(0b0110111, 1, 1)
		Expect(word).To(Equal(uint32(0x000010b7)))
		Expect(opcodeOf(word)).To(Equal(uint32(0b0110111)))
		opcode, rd, imm := unpackU(word)
		Expect(opcode).To(Equal(uint32(0b0110111)))
		Expect(rd).To(Equal(uint32(1)))
		Expect(imm).To(Equal(uint32(1)))
	})

	It("discards bit zero of branch offsets by layout", func() {
		// bit 0 has no storage in the B format
		Expect(packB(0b1100011, 0, 0, 0, 8)).To(Equal(packB(0b1100011, 0, 0, 0, 9)))
	})
})

var _ = Describe("splitHiLo", func() {
	It("reconstructs values whose bit 11 is clear", func() {
		hi, lo := splitHiLo(100000)
		Expect(int32(hi<<12) + lo).To(Equal(int32(100000)))
		Expect(lo).To(BeNumerically(">=", -2048))
		Expect(lo).To(BeNumerically("<=", 2047))
	})

	It("carries into the upper half when bit 11 is set", func() {
		hi, lo := splitHiLo(0x800)
		Expect(hi).To(Equal(uint32(1)))
		Expect(lo).To(Equal(int32(-2048)))
		Expect(int32(hi<<12) + lo).To(Equal(int32(0x800)))
	})

	It("reconstructs negative values", func() {
		for _, v := range []int32{-1, -4097, -2147483648} {
			hi, lo := splitHiLo(v)
			Expect(int32(hi<<12) + lo).To(Equal(v), "value %d", v)
		}
	})
})

var _ = Describe("Instruction table", func() {
	It("covers the full RV32I base set", func() {
		Expect(InstrTable).To(HaveLen(40))
	})

	It("maps both architectural and ABI register names", func() {
		Expect(RegisterNameMap).To(HaveKeyWithValue("zero", uint32(0)))
		Expect(RegisterNameMap).To(HaveKeyWithValue("x0", uint32(0)))
		Expect(RegisterNameMap).To(HaveKeyWithValue("sp", uint32(2)))
		Expect(RegisterNameMap).To(HaveKeyWithValue("fp", uint32(8)))
		Expect(RegisterNameMap).To(HaveKeyWithValue("s0", uint32(8)))
		Expect(RegisterNameMap).To(HaveKeyWithValue("t6", uint32(31)))
	})
})

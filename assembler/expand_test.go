package assembler

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustExpand(source string) []Statement {
	stmts, warnings, diag := parseProgram(source)
	ExpectWithOffset(1, diag).To(BeNil())
	ExpectWithOffset(1, warnings).To(BeEmpty())
	expanded, diag := expandPseudos(stmts)
	ExpectWithOffset(1, diag).To(BeNil())
	return expanded
}

func instructionsOf(stmts []Statement) []Statement {
	var out []Statement
	for _, st := range stmts {
		if st.Kind == StmtInstruction {
			out = append(out, st)
		}
	}
	return out
}

var _ = Describe("Pseudo-instruction expander", func() {
	It("rewrites nop into addi x0, x0, 0", func() {
		insts := instructionsOf(mustExpand("nop"))
		Expect(insts).To(HaveLen(1))
		Expect(insts[0].Mnemonic).To(Equal("addi"))
		Expect(insts[0].Operands).To(HaveLen(3))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(0)))
		Expect(insts[0].Operands[1].Reg).To(Equal(uint32(0)))
		Expect(insts[0].Operands[2].Value).To(Equal(int32(0)))
	})

	It("keeps small li values a single addi", func() {
		insts := instructionsOf(mustExpand("li x5, -2048"))
		Expect(insts).To(HaveLen(1))
		Expect(insts[0].Mnemonic).To(Equal("addi"))
		Expect(insts[0].Operands[2].Value).To(Equal(int32(-2048)))
	})

	It("splits large li values into lui and addi", func() {
		insts := instructionsOf(mustExpand("li x5, 2048"))
		Expect(insts).To(HaveLen(2))
		Expect(insts[0].Mnemonic).To(Equal("lui"))
		Expect(insts[1].Mnemonic).To(Equal("addi"))
		// both halves target the same register
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(5)))
		Expect(insts[1].Operands[0].Reg).To(Equal(uint32(5)))
		Expect(insts[1].Operands[1].Reg).To(Equal(uint32(5)))
		Expect(insts[0].Operands[1].Value).To(Equal(int32(1)))
		Expect(insts[1].Operands[2].Value).To(Equal(int32(-2048)))
	})

	It("marks la halves with the hi and lo symbol parts", func() {
		insts := instructionsOf(mustExpand("la x3, target\ntarget: nop"))
		Expect(insts[0].Mnemonic).To(Equal("lui"))
		Expect(insts[0].Operands[1].Symbol).To(Equal("target"))
		Expect(insts[0].Operands[1].Part).To(Equal(PartHi))
		Expect(insts[1].Mnemonic).To(Equal("addi"))
		Expect(insts[1].Operands[2].Part).To(Equal(PartLo))
	})

	It("expands call into auipc+jalr linking through x1", func() {
		insts := instructionsOf(mustExpand("call fn\nfn: nop"))
		Expect(insts[0].Mnemonic).To(Equal("auipc"))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(1)))
		Expect(insts[0].Operands[1].Part).To(Equal(PartPCRelHi))
		Expect(insts[1].Mnemonic).To(Equal("jalr"))
		Expect(insts[1].Operands[0].Reg).To(Equal(uint32(1)))
		Expect(insts[1].Operands[2].Part).To(Equal(PartPCRelLo))
	})

	It("expands tail through the scratch register without linking", func() {
		insts := instructionsOf(mustExpand("tail fn\nfn: nop"))
		Expect(insts[0].Mnemonic).To(Equal("auipc"))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(6)))
		Expect(insts[1].Mnemonic).To(Equal("jalr"))
		Expect(insts[1].Operands[0].Reg).To(Equal(uint32(0)))
		Expect(insts[1].Operands[1].Reg).To(Equal(uint32(6)))
	})

	It("rewrites ret into jalr x0, x1, 0", func() {
		insts := instructionsOf(mustExpand("ret"))
		Expect(insts).To(HaveLen(1))
		Expect(insts[0].Mnemonic).To(Equal("jalr"))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(0)))
		Expect(insts[0].Operands[1].Reg).To(Equal(uint32(1)))
	})

	It("swaps operands for the reversed branch comparisons", func() {
		insts := instructionsOf(mustExpand("bgt x1, x2, out\nout: nop"))
		Expect(insts[0].Mnemonic).To(Equal("blt"))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(2)))
		Expect(insts[0].Operands[1].Reg).To(Equal(uint32(1)))
	})

	It("defaults the jal link register to x1 for the single-operand form", func() {
		insts := instructionsOf(mustExpand("jal out\nout: nop"))
		Expect(insts[0].Mnemonic).To(Equal("jal"))
		Expect(insts[0].Operands[0].Reg).To(Equal(uint32(1)))
	})

	It("passes base instructions through untouched", func() {
		insts := instructionsOf(mustExpand("add x1, x2, x3"))
		Expect(insts).To(HaveLen(1))
		Expect(insts[0].Mnemonic).To(Equal("add"))
		Expect(insts[0].Operands).To(HaveLen(3))
	})

	It("rejects li with a symbol operand", func() {
		stmts, _, diag := parseProgram("li x1, somewhere")
		Expect(diag).To(BeNil())
		_, diag = expandPseudos(stmts)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindSyntaxError))
	})

	It("rejects pseudo-instructions with the wrong operand count", func() {
		stmts, _, diag := parseProgram("mv x1")
		Expect(diag).To(BeNil())
		_, diag = expandPseudos(stmts)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindSyntaxError))
	})
})

package assembler

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Line tokenizer", func() {
	kinds := func(tokens []Token) []TokenKind {
		out := make([]TokenKind, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, tok.Kind)
		}
		return out
	}

	It("classifies a full instruction line", func() {
		tokens, diag := tokenizeLine("addi x1, sp, -16", 0)
		Expect(diag).To(BeNil())
		Expect(kinds(tokens)).To(Equal([]TokenKind{
			TokenIdentifier, TokenRegister, TokenPunct,
			TokenRegister, TokenPunct, TokenImmediate,
		}))
		Expect(tokens[1].Reg).To(Equal(uint32(1)))
		Expect(tokens[3].Reg).To(Equal(uint32(2)))
		Expect(tokens[5].Value).To(Equal(int64(-16)))
	})

	It("strips comments to the end of the line", func() {
		tokens, diag := tokenizeLine("nop # clears nothing", 0)
		Expect(diag).To(BeNil())
		Expect(tokens).To(HaveLen(1))
		Expect(tokens[0].Text).To(Equal("nop"))
	})

	It("lexes label definitions as identifier plus colon", func() {
		tokens, diag := tokenizeLine("loop:", 3)
		Expect(diag).To(BeNil())
		Expect(kinds(tokens)).To(Equal([]TokenKind{TokenIdentifier, TokenPunct}))
		Expect(tokens[0].Line).To(Equal(3))
	})

	It("lexes directives with their leading dot", func() {
		tokens, diag := tokenizeLine(".word 1, 0x2", 0)
		Expect(diag).To(BeNil())
		Expect(tokens[0].Kind).To(Equal(TokenDirective))
		Expect(tokens[0].Text).To(Equal(".word"))
		Expect(tokens[3].Value).To(Equal(int64(2)))
	})

	It("accepts hex literals up to 32 bits", func() {
		tokens, diag := tokenizeLine("0xffffffff", 0)
		Expect(diag).To(BeNil())
		Expect(tokens[0].Value).To(Equal(int64(0xffffffff)))
	})

	It("rejects literals wider than 32 bits", func() {
		_, diag := tokenizeLine("0x100000000", 0)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindLexError))
	})

	It("rejects a bare hex prefix", func() {
		_, diag := tokenizeLine("addi x1, x0, 0x", 0)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindLexError))
	})

	It("rejects digits glued to identifier characters", func() {
		_, diag := tokenizeLine("12abc", 0)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindLexError))
	})

	It("rejects characters outside the grammar", func() {
		_, diag := tokenizeLine("add x1, x2, @", 0)
		Expect(diag).NotTo(BeNil())
		Expect(diag.Kind).To(Equal(KindLexError))
	})

	It("records column positions for diagnostics", func() {
		tokens, diag := tokenizeLine("  lw x1, 8(x2)", 7)
		Expect(diag).To(BeNil())
		Expect(tokens[0].Col).To(Equal(2))
		Expect(tokens[0].Line).To(Equal(7))
		r := tokens[0].rang()
		Expect(r.End.Char).To(Equal(4))
	})
})

package assembler

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Bytes serializes the encoded words as a little-endian byte stream in
// address order. Instructions are contiguous multiples of 4, so there is
// never padding.
func (a *AssembledResult) Bytes() []byte {
	out := make([]byte, 0, len(a.Text)*4)
	for _, inst := range a.Text {
		out = binary.LittleEndian.AppendUint32(out, inst.Word)
	}
	return out
}

// HexDump renders the same word sequence as one 8-digit hex word per line.
func (a *AssembledResult) HexDump() string {
	var b strings.Builder
	for _, inst := range a.Text {
		fmt.Fprintf(&b, "%08x\n", inst.Word)
	}
	return b.String()
}

// HasErrors reports whether any diagnostic is fatal. Warnings alone still
// produce output.
func (a *AssembledResult) HasErrors() bool {
	for _, d := range a.Diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

package assembler

import "sort"

type Symbol struct {
	Name    string
	Address uint32
	Defined bool

	firstRef   TextRange
	referenced bool
}

// SymbolTable is written exactly once, during pass 1, and is read-only
// afterwards. Addresses never move once assigned.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// Names returns the defined symbol names in deterministic order.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name, sym := range t.symbols {
		if sym.Defined {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (t *SymbolTable) reference(name string, r TextRange) {
	sym, ok := t.symbols[name]
	if !ok {
		sym = &Symbol{Name: name}
		t.symbols[name] = sym
	}
	if !sym.referenced {
		sym.referenced = true
		sym.firstRef = r
	}
}

func (t *SymbolTable) define(name string, address uint32, r TextRange) *Diagnostic {
	sym, ok := t.symbols[name]
	if !ok {
		sym = &Symbol{Name: name}
		t.symbols[name] = sym
	}
	if sym.Defined {
		return Errors.DuplicateSymbol(name, r)
	}
	sym.Defined = true
	sym.Address = address
	return nil
}

// buildSymbolTable is pass 1: it walks the expanded statement sequence once,
// assigns every instruction its address and binds each label to the address
// of whatever comes next. Directives advance the counter by their declared
// size. After the walk the table is frozen and every referenced symbol must
// have a definition.
func buildSymbolTable(prog *Program) *Diagnostic {
	if prog.Origin%4 != 0 {
		return Errors.MisalignedOrigin(prog.Origin)
	}

	pc := prog.Origin
	for i := range prog.Statements {
		st := &prog.Statements[i]
		switch st.Kind {
		case StmtLabel:
			r := TextRange{
				Start: TextPosition{Line: st.Line, Char: st.Col},
				End:   TextPosition{Line: st.Line, Char: st.Col + len(st.Label)},
			}
			if diag := prog.Symbols.define(st.Label, pc, r); diag != nil {
				return diag
			}

		case StmtInstruction:
			st.Address = pc
			pc += 4
			for _, op := range st.Operands {
				if op.Kind == OperandSymbol {
					prog.Symbols.reference(op.Symbol, op.rang())
				}
			}

		case StmtDirective:
			st.Address = pc
			if st.Directive == ".word" {
				pc += 4 * uint32(len(st.Args))
				for _, op := range st.Args {
					if op.Kind == OperandSymbol {
						prog.Symbols.reference(op.Symbol, op.rang())
					}
				}
			}
		}
	}

	for _, name := range sortedSymbolNames(prog.Symbols) {
		sym := prog.Symbols.symbols[name]
		if sym.referenced && !sym.Defined {
			return Errors.UndefinedSymbol(name, sym.firstRef)
		}
	}
	return nil
}

func sortedSymbolNames(t *SymbolTable) []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

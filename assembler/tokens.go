package assembler

import "strconv"

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// tokenizeLine lexes one source line. Each call is independent; the line
// number only feeds the positions carried by the tokens. Comments run from
// '#' to the end of the line.
func tokenizeLine(text string, line int) ([]Token, *Diagnostic) {
	var tokens []Token
	pos := 0

	for pos < len(text) {
		c := text[pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			pos++

		case c == '#':
			return tokens, nil

		case c == ',' || c == '(' || c == ')' || c == ':' || c == '+':
			tokens = append(tokens, Token{Kind: TokenPunct, Text: string(c), Line: line, Col: pos})
			pos++

		case c == '.':
			start := pos
			pos++
			for pos < len(text) && isIdentChar(text[pos]) {
				pos++
			}
			if pos == start+1 {
				r := TextRange{Start: TextPosition{Line: line, Char: start}, End: TextPosition{Line: line, Char: pos}}
				return nil, Errors.Lex("expected a directive name after '.'", r)
			}
			tokens = append(tokens, Token{Kind: TokenDirective, Text: text[start:pos], Line: line, Col: start})

		case isDigit(c) || c == '-':
			tok, diag := lexNumber(text, line, &pos)
			if diag != nil {
				return nil, diag
			}
			tokens = append(tokens, tok)

		case isIdentStart(c):
			start := pos
			for pos < len(text) && isIdentChar(text[pos]) {
				pos++
			}
			word := text[start:pos]
			tok := Token{Kind: TokenIdentifier, Text: word, Line: line, Col: start}
			if reg, ok := RegisterNameMap[word]; ok {
				tok.Kind = TokenRegister
				tok.Reg = reg
			}
			tokens = append(tokens, tok)

		default:
			r := TextRange{Start: TextPosition{Line: line, Char: pos}, End: TextPosition{Line: line, Char: pos + 1}}
			return nil, Errors.Lex("unexpected character "+strconv.Quote(string(c)), r)
		}
	}

	return tokens, nil
}

func lexNumber(text string, line int, pos *int) (Token, *Diagnostic) {
	start := *pos
	i := start
	if text[i] == '-' {
		i++
	}

	base := 10
	digits := i
	if i+1 < len(text) && text[i] == '0' && (text[i+1] == 'x' || text[i+1] == 'X') {
		base = 16
		i += 2
		digits = i
		for i < len(text) && isHexDigit(text[i]) {
			i++
		}
	} else {
		for i < len(text) && isDigit(text[i]) {
			i++
		}
	}

	bad := i == digits || i < len(text) && isIdentChar(text[i])
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	lit := text[start:i]
	r := TextRange{Start: TextPosition{Line: line, Char: start}, End: TextPosition{Line: line, Char: i}}
	if bad {
		return Token{}, Errors.Lex("invalid numeric literal "+strconv.Quote(lit), r)
	}

	body := lit
	negative := false
	if body[0] == '-' {
		negative = true
		body = body[1:]
	}
	if base == 16 {
		body = body[2:]
	}

	value, err := strconv.ParseInt(body, base, 64)
	if err != nil || value > 0xFFFFFFFF {
		return Token{}, Errors.Lex("numeric literal "+strconv.Quote(lit)+" does not fit in 32 bits", r)
	}
	if negative {
		value = -value
		if value < -(1 << 31) {
			return Token{}, Errors.Lex("numeric literal "+strconv.Quote(lit)+" does not fit in 32 bits", r)
		}
	}

	*pos = i
	return Token{Kind: TokenImmediate, Text: lit, Value: value, Line: line, Col: start}, nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

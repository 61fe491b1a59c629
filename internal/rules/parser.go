package rules

import "strings"

// Parse lexes and parses a whole rules-file source, returning the AST and
// any collected errors. A non-empty error list means there is no runnable
// RuleSet; per spec §4.D, on success the error list is empty.
func Parse(src string) (*RuleSet, []error) {
	tokens, lexErrs := Tokenize(src)
	p := &parser{tokens: tokens}
	p.errs = append(p.errs, lexErrs...)
	rs := p.parseRuleSet()
	return rs, p.errs
}

type parser struct {
	tokens []Token
	pos    int
	errs   []error
}

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // TEOF
	}
	return p.tokens[idx]
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) atEOF() bool { return p.peek().Kind == TEOF }

func (p *parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok Token, msg string) {
	p.errs = append(p.errs, &ParseError{Line: tok.Line, Col: tok.Col, Message: msg})
}

// expect consumes the next token if it has kind, else records an error and
// leaves the cursor in place so the caller can attempt recovery.
func (p *parser) expect(kind TokenKind, desc string) (Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	p.errorf(p.peek(), "expected "+desc)
	return Token{}, false
}

func (p *parser) expectOk(kind TokenKind, desc string) bool {
	_, ok := p.expect(kind, desc)
	return ok
}

func (p *parser) parseRuleSet() *RuleSet {
	rs := &RuleSet{}
	for p.at(TWord) && p.peek().Text == "prefix" {
		decl, ok := p.parsePrefixDecl()
		if ok {
			rs.Prefixes = append(rs.Prefixes, decl)
		} else {
			p.recoverToNextRule()
		}
	}
	for !p.atEOF() {
		rule, ok := p.parseRule()
		if ok {
			rs.Rules = append(rs.Rules, rule)
		} else {
			p.recoverToNextRule()
		}
	}
	return rs
}

// recoverToNextRule skips tokens until a statement boundary so a later rule
// can still be parsed after one bad rule (spec S5: one error, parsing
// continues rather than aborting the whole file).
func (p *parser) recoverToNextRule() {
	for {
		switch p.peek().Kind {
		case TEOF:
			return
		case TSemi:
			p.advance()
			return
		case TRBrace:
			return
		default:
			p.advance()
		}
	}
}

func (p *parser) parsePrefixDecl() (PrefixDecl, bool) {
	p.advance() // 'prefix'
	nameTok, ok := p.expect(TWord, "prefix name")
	if !ok {
		return PrefixDecl{}, false
	}
	iriTok, ok := p.expect(TAngleIRI, "prefix IRI in '<...>'")
	if !ok {
		return PrefixDecl{}, false
	}
	return PrefixDecl{Name: strings.TrimSuffix(nameTok.Text, ":"), IRI: iriTok.Text}, true
}

func (p *parser) parseTags() []string {
	p.advance() // '['
	var tags []string
	for {
		tok, ok := p.expect(TWord, "tag name")
		if !ok {
			break
		}
		tags = append(tags, tok.Text)
		if p.at(TComma) {
			p.advance()
			continue
		}
		break
	}
	p.expectOk(TRBracket, "']'")
	return tags
}

func (p *parser) parseRule() (Rule, bool) {
	start := p.peek()
	var tags []string
	if p.at(TLBracket) {
		tags = p.parseTags()
	}
	filter, ok := p.parseOr()
	if !ok {
		return Rule{}, false
	}

	switch {
	case p.at(TArrow):
		p.advance()
		actions, ok := p.parseActionSet()
		if !ok {
			return Rule{}, false
		}
		if p.at(TSemi) {
			p.advance()
		}
		return Rule{Tags: tags, Filter: filter, Actions: actions, Line: start.Line, Col: start.Col}, true
	case p.at(TLBrace):
		p.advance()
		var nested []Rule
		for !p.at(TRBrace) && !p.atEOF() {
			r, ok := p.parseRule()
			if ok {
				nested = append(nested, r)
			} else {
				p.recoverToNextRule()
			}
		}
		if !p.expectOk(TRBrace, "'}'") {
			return Rule{}, false
		}
		return Rule{Tags: tags, Filter: filter, Nested: nested, Line: start.Line, Col: start.Col}, true
	default:
		p.errorf(p.peek(), "expected '->' or '{' after filter expression")
		return Rule{}, false
	}
}

// parseOr / parseAnd / parseUnary / parsePrimary implement the precedence
// chain from spec §4.D: "!" binds tightest, then "&&", then "||", with
// parentheses overriding and left-associativity throughout.
func (p *parser) parseOr() (FilterExpr, bool) {
	left, ok := p.parseAnd()
	if !ok {
		return nil, false
	}
	for p.at(TOr) {
		p.advance()
		right, ok := p.parseAnd()
		if !ok {
			return nil, false
		}
		left = Or{Left: left, Right: right}
	}
	return left, true
}

func (p *parser) parseAnd() (FilterExpr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for p.at(TAnd) {
		p.advance()
		right, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		left = And{Left: left, Right: right}
	}
	return left, true
}

func (p *parser) parseUnary() (FilterExpr, bool) {
	if p.at(TNot) {
		p.advance()
		inner, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return Not{Inner: inner}, true
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (FilterExpr, bool) {
	if p.at(TLParen) {
		p.advance()
		inner, ok := p.parseOr()
		if !ok {
			return nil, false
		}
		if !p.expectOk(TRParen, "')'") {
			return nil, false
		}
		return Group{Inner: inner}, true
	}

	tok := p.peek()
	if tok.Kind != TWord {
		p.errorf(tok, "expected filter expression")
		return nil, false
	}

	if p.peekAt(1).Kind == TLParen {
		call, ok := p.parseCall()
		if !ok {
			return nil, false
		}
		return call, true
	}

	if p.peekAt(1).Kind == TEq {
		field := tok.Text
		p.advance()
		p.advance() // '=='
		valTok := p.peek()
		if field == "predicate_modifier" && valTok.Kind == TWord && valTok.Text == "Not" {
			p.advance()
			return PredicateModifierIsNot{Line: tok.Line, Col: tok.Col}, true
		}
		if valTok.Kind != TWord {
			p.errorf(valTok, "expected a CURIE or '*' after '=='")
			return nil, false
		}
		p.advance()
		return IdMatch{Field: field, Value: valTok.Text, Line: tok.Line, Col: tok.Col}, true
	}

	p.errorf(tok, "expected '(' or '==' after "+tok.Text)
	return nil, false
}

func (p *parser) parseCall() (Call, bool) {
	nameTok := p.advance()
	if !p.expectOk(TLParen, "'('") {
		return Call{}, false
	}
	var args []Arg
	var named []NamedArg
	if !p.at(TRParen) {
		for {
			if p.at(TSlash) {
				p.advance()
				nameArgTok, ok := p.expect(TWord, "named argument name")
				if !ok {
					return Call{}, false
				}
				if !p.expectOk(TAssign, "'='") {
					return Call{}, false
				}
				a, ok := p.parseArg()
				if !ok {
					return Call{}, false
				}
				named = append(named, NamedArg{Name: nameArgTok.Text, Arg: a})
			} else {
				a, ok := p.parseArg()
				if !ok {
					return Call{}, false
				}
				args = append(args, a)
			}
			if p.at(TComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.expectOk(TRParen, "')'") {
		return Call{}, false
	}
	return Call{Name: nameTok.Text, Args: args, Named: named, Line: nameTok.Line, Col: nameTok.Col}, true
}

func (p *parser) parseArg() (Arg, bool) {
	tok := p.peek()
	switch tok.Kind {
	case TString:
		p.advance()
		return Arg{Kind: ArgString, Text: tok.Text}, true
	case TNumber:
		p.advance()
		return Arg{Kind: ArgNumber, Text: tok.Text}, true
	case TAngleIRI:
		p.advance()
		return Arg{Kind: ArgIRI, Text: tok.Text}, true
	case TTemplate:
		p.advance()
		return Arg{Kind: ArgTemplate, Text: tok.Text}, true
	case TWord:
		p.advance()
		if tok.Text == "null" {
			return Arg{Kind: ArgNull}, true
		}
		return Arg{Kind: ArgCurie, Text: tok.Text}, true
	}
	p.errorf(tok, "expected an argument (string, CURIE, IRI, number, template, or null)")
	return Arg{}, false
}

func (p *parser) parseActionSet() ([]Action, bool) {
	if p.at(TLBrace) {
		p.advance()
		var actions []Action
		for !p.at(TRBrace) && !p.atEOF() {
			a, ok := p.parseAction()
			if !ok {
				return nil, false
			}
			actions = append(actions, a)
		}
		if !p.expectOk(TRBrace, "'}'") {
			return nil, false
		}
		return actions, true
	}
	a, ok := p.parseAction()
	if !ok {
		return nil, false
	}
	return []Action{a}, true
}

func (p *parser) parseAction() (Action, bool) {
	tok := p.peek()
	if tok.Kind != TWord {
		p.errorf(tok, "expected an action")
		return nil, false
	}
	switch tok.Text {
	case "stop":
		return p.parseNoArgAction(func(l, c int) Action { return Stop{Line: l, Col: c} })
	case "invert":
		return p.parseNoArgAction(func(l, c int) Action { return Invert{Line: l, Col: c} })
	case "include":
		return p.parseNoArgAction(func(l, c int) Action { return Include{Line: l, Col: c} })
	default:
		call, ok := p.parseCall()
		if !ok {
			return nil, false
		}
		if p.at(TSemi) {
			p.advance()
		}
		return call, true
	}
}

func (p *parser) parseNoArgAction(build func(line, col int) Action) (Action, bool) {
	tok := p.advance()
	if !p.expectOk(TLParen, "'('") {
		return nil, false
	}
	if !p.expectOk(TRParen, "')'") {
		return nil, false
	}
	if p.at(TSemi) {
		p.advance()
	}
	return build(tok.Line, tok.Col), true
}

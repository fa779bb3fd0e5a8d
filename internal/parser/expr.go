package parser

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/token"
)

// parseExpr is the entry point of the precedence-climbing expression
// grammar, lowest-precedence ("or") first.
func (p *Parser) parseExpr() (ast.Expr, *compilerr.CompileError) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.Or) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.LogOr, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.check(token.And) {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.LogAnd, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, *compilerr.CompileError) {
	if p.check(token.Not) {
		start := p.advance().Span
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.Not, X: x, Span: mergeSpan(start, x.SpanOf())}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[token.Type]ast.BinaryOp{
	token.EqEq: ast.Eq, token.NotEq: ast.NotEq,
	token.Lt: ast.Lt, token.Gt: ast.Gt, token.LtEq: ast.LtEq, token.GtEq: ast.GtEq,
}

func (p *Parser) parseComparison() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
}

func (p *Parser) parseBitOr() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.check(token.Pipe) {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.BitOr, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.Caret) {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.BitXor, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.check(token.Amp) {
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.BitAnd, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseShift() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.Shl) || p.check(token.Shr) {
		op := ast.Shl
		if p.check(token.Shr) {
			op = ast.Shr
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		op := ast.Add
		if p.check(token.Minus) {
			op = ast.Sub
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expr, *compilerr.CompileError) {
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		var op ast.BinaryOp
		switch p.cur().Type {
		case token.Star:
			op = ast.Mul
		case token.Slash:
			op = ast.Div
		default:
			op = ast.Mod
		}
		p.advance()
		right, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: mergeSpan(left.SpanOf(), right.SpanOf())}
	}
	return left, nil
}

// parseCast handles the postfix "X as TYPE" conversion, binding
// tighter than any binary operator but looser than unary prefixes.
func (p *Parser) parseCast() (ast.Expr, *compilerr.CompileError) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.As) {
		p.advance()
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		x = &ast.CastExpr{X: x, Target: target, Span: mergeSpan(x.SpanOf(), p.toks[p.pos-1].Span)}
	}
	return x, nil
}

func (p *Parser) parseUnary() (ast.Expr, *compilerr.CompileError) {
	switch p.cur().Type {
	case token.Minus:
		start := p.advance().Span
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.Neg, X: x, Span: mergeSpan(start, x.SpanOf())}, nil
	case token.Tilde:
		start := p.advance().Span
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.BitNot, X: x, Span: mergeSpan(start, x.SpanOf())}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expr, *compilerr.CompileError) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(token.LBracket) {
		p.advance()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBracket, compilerr.ErrUnexpectedToken, "expected ']' after index expression")
		if err != nil {
			return nil, err
		}
		x = &ast.IndexExpr{Array: x, Index: idx, Span: mergeSpan(x.SpanOf(), end.Span)}
	}
	return x, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *compilerr.CompileError) {
	tok := p.cur()
	switch tok.Type {
	case token.Integer:
		p.advance()
		return &ast.IntLit{Value: tok.IntValue, Span: tok.Span}, nil
	case token.Decimal:
		p.advance()
		return &ast.DecimalLit{Text: tok.Text, Span: tok.Span}, nil
	case token.Bool:
		p.advance()
		return &ast.BoolLit{Value: tok.BoolValue, Span: tok.Span}, nil
	case token.String:
		p.advance()
		return &ast.StringLit{Value: tok.Text, Span: tok.Span}, nil
	case token.Char:
		p.advance()
		return &ast.CharLit{Value: byte(tok.IntValue), Span: tok.Span}, nil
	case token.LParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, compilerr.ErrUnexpectedToken, "expected ')'"); err != nil {
			return nil, err
		}
		return x, nil
	case token.LBracket:
		return p.parseArrayLit()
	case token.Identifier:
		return p.parseIdentOrCall()
	default:
		return nil, compilerr.New(compilerr.ErrUnexpectedToken,
			"expected an expression", tok.Span)
	}
}

func (p *Parser) parseArrayLit() (ast.Expr, *compilerr.CompileError) {
	start := p.advance().Span // '['
	var elems []ast.Expr
	for !p.check(token.RBracket) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.match(token.Comma) {
			break
		}
	}
	end, err := p.expect(token.RBracket, compilerr.ErrUnexpectedToken, "expected ']' to close array literal")
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Elems: elems, Span: mergeSpan(start, end.Span)}, nil
}

func (p *Parser) parseIdentOrCall() (ast.Expr, *compilerr.CompileError) {
	name := p.advance()
	if !p.check(token.LParen) {
		return &ast.Ident{Name: name.Text, Span: name.Span}, nil
	}
	p.advance() // '('
	var args []ast.Expr
	for !p.check(token.RParen) {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.match(token.Comma) {
			break
		}
	}
	end, err := p.expect(token.RParen, compilerr.ErrUnexpectedToken, "expected ')' after call arguments")
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: name.Text, Args: args, Span: mergeSpan(name.Span, end.Span)}, nil
}

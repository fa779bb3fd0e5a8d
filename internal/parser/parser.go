// Package parser implements Cobra64's recursive-descent parser: it
// consumes the lexer's flat token stream, including its layout tokens,
// and produces an ast.Program. Structurally it follows the teacher
// compiler's hand-written descent parser (one method per grammar
// production, a small Peek/Advance/Expect core) rather than a
// generated one.
package parser

import (
	"github.com/mkloubert/cobra64/internal/ast"
	"github.com/mkloubert/cobra64/internal/cbtype"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/position"
	"github.com/mkloubert/cobra64/internal/token"
)

// Parser holds the token stream and current read position.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse parses a complete token stream (as produced by lexer.Tokenize)
// into a Program.
func Parse(toks []token.Token) (*ast.Program, *compilerr.CompileError) {
	p := &Parser{toks: toks}
	prog := &ast.Program{}

	p.skipNewlines()
	for !p.check(token.EOF) {
		item, err := p.parseTopLevelItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
		p.skipNewlines()
	}
	return prog, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) check(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t token.Type, code compilerr.ErrorCode, msg string) (token.Token, *compilerr.CompileError) {
	if !p.check(t) {
		return token.Token{}, compilerr.New(code, msg, p.cur().Span)
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.check(token.Newline) {
		p.advance()
	}
}

func mergeSpan(a, b position.Span) position.Span {
	return position.Span{Start: a.Start, End: b.End}
}

// parseTopLevelItem dispatches on the leading keyword/identifier: a
// function definition, a data block, a constant, or a module-level
// variable.
func (p *Parser) parseTopLevelItem() (ast.TopLevelItem, *compilerr.CompileError) {
	switch {
	case p.check(token.Def):
		return p.parseFuncDecl()
	case p.check(token.Data):
		return p.parseDataBlock()
	case p.check(token.Const):
		d, err := p.parseConstDecl()
		if err != nil {
			return nil, err
		}
		return d, nil
	case p.check(token.Identifier):
		d, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, compilerr.New(compilerr.ErrUnexpectedToken,
			"expected a function, constant, or variable declaration", p.cur().Span)
	}
}

func (p *Parser) parseType() (cbtype.Type, *compilerr.CompileError) {
	tok := p.cur()
	var kind cbtype.Kind
	switch tok.Type {
	case token.TypeByte:
		kind = cbtype.Byte
	case token.TypeWord:
		kind = cbtype.Word
	case token.TypeSbyte:
		kind = cbtype.Sbyte
	case token.TypeSword:
		kind = cbtype.Sword
	case token.TypeBool:
		kind = cbtype.Bool
	case token.TypeString:
		kind = cbtype.String
	case token.TypeFixed:
		kind = cbtype.Fixed
	case token.TypeFloat:
		kind = cbtype.Float
	case token.TypeVoid:
		kind = cbtype.Void
	default:
		return cbtype.Type{}, compilerr.New(compilerr.ErrExpectedType,
			"expected a type name", tok.Span)
	}
	p.advance()

	if p.check(token.LBracket) {
		p.advance()
		if p.check(token.Integer) {
			size := p.advance().IntValue
			if _, err := p.expect(token.RBracket, compilerr.ErrInvalidType, "expected ']'"); err != nil {
				return cbtype.Type{}, err
			}
			return cbtype.Array(kind, size), nil
		}
		if _, err := p.expect(token.RBracket, compilerr.ErrInvalidType, "expected ']'"); err != nil {
			return cbtype.Type{}, err
		}
		return cbtype.ArrayOfUnknownSize(kind), nil
	}
	return cbtype.Scalar(kind), nil
}

func (p *Parser) parseConstDecl() (*ast.ConstDecl, *compilerr.CompileError) {
	start := p.cur().Span
	p.advance() // 'const'
	name, err := p.expect(token.Identifier, compilerr.ErrExpectedIdentifier, "expected constant name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, compilerr.ErrMissingTypeAnnotation, "constants require an explicit type"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Eq, compilerr.ErrUnexpectedToken, "expected '=' in constant declaration"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	nl := p.cur().Span
	if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after statement"); err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Name: name.Text, Type: typ, Value: value, Span: mergeSpan(start, nl)}, nil
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, *compilerr.CompileError) {
	start := p.cur().Span
	name := p.advance()
	if _, err := p.expect(token.Colon, compilerr.ErrMissingTypeAnnotation, "variables require an explicit type"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var initExpr ast.Expr
	if p.match(token.Eq) {
		initExpr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	nl := p.cur().Span
	if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after statement"); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Name: name.Text, Type: typ, Init: initExpr, Span: mergeSpan(start, nl)}, nil
}

// parseDataBlock parses "data NAME [align SIZE]:" followed by an
// indented list of entries, each either a comma-separated list of byte
// values or a quoted include path plus offset and length.
func (p *Parser) parseDataBlock() (*ast.DataBlock, *compilerr.CompileError) {
	start := p.advance().Span // 'data'
	name, err := p.expect(token.Identifier, compilerr.ErrExpectedIdentifier, "expected data block name")
	if err != nil {
		return nil, err
	}

	var align uint16
	if p.check(token.Align) {
		p.advance()
		sizeTok, err := p.expect(token.Integer, compilerr.ErrUnexpectedToken, "expected an alignment size")
		if err != nil {
			return nil, err
		}
		align = sizeTok.IntValue
	}

	if _, err := p.expect(token.Colon, compilerr.ErrUnexpectedToken, "expected ':' to begin a data block"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline before indented data block"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.Indent, compilerr.ErrUnexpectedToken, "expected an indented data block"); err != nil {
		return nil, err
	}

	var entries []ast.DataEntry
	for !p.check(token.Dedent) && !p.check(token.EOF) {
		entry, err := p.parseDataEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		p.skipNewlines()
	}
	end := p.cur().Span
	if _, err := p.expect(token.Dedent, compilerr.ErrUnexpectedToken, "expected dedent at end of data block"); err != nil {
		return nil, err
	}
	return &ast.DataBlock{Name: name.Text, Align: align, Entries: entries, Span: mergeSpan(start, end)}, nil
}

// parseDataEntry parses one line inside a data block: a quoted file
// path followed by an offset and a length ("path.bin", 0, 64), or a
// comma-separated list of inline byte values ($01, $02, 3).
func (p *Parser) parseDataEntry() (ast.DataEntry, *compilerr.CompileError) {
	start := p.cur().Span

	if p.check(token.String) {
		pathTok := p.advance()
		if _, err := p.expect(token.Comma, compilerr.ErrUnexpectedToken, "expected ',' after include path"); err != nil {
			return ast.DataEntry{}, err
		}
		offTok, err := p.expect(token.Integer, compilerr.ErrUnexpectedToken, "expected an include offset")
		if err != nil {
			return ast.DataEntry{}, err
		}
		if _, err := p.expect(token.Comma, compilerr.ErrUnexpectedToken, "expected ',' after include offset"); err != nil {
			return ast.DataEntry{}, err
		}
		lenTok, err := p.expect(token.Integer, compilerr.ErrUnexpectedToken, "expected an include length")
		if err != nil {
			return ast.DataEntry{}, err
		}
		nl := p.cur().Span
		if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after data entry"); err != nil {
			return ast.DataEntry{}, err
		}
		return ast.DataEntry{
			Path:   pathTok.Text,
			Offset: uint32(offTok.IntValue),
			Length: uint32(lenTok.IntValue),
			Span:   mergeSpan(start, nl),
		}, nil
	}

	var bytes []byte
	for {
		tok, err := p.expect(token.Integer, compilerr.ErrUnexpectedToken, "expected a byte value in data block")
		if err != nil {
			return ast.DataEntry{}, err
		}
		if tok.IntValue > 255 {
			return ast.DataEntry{}, compilerr.New(compilerr.ErrDataByteOutOfRange,
				"data block byte value out of range (0..255)", tok.Span)
		}
		bytes = append(bytes, byte(tok.IntValue))
		if !p.match(token.Comma) {
			break
		}
	}
	nl := p.cur().Span
	if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after data entry"); err != nil {
		return ast.DataEntry{}, err
	}
	return ast.DataEntry{Bytes: bytes, Span: mergeSpan(start, nl)}, nil
}

func (p *Parser) parseFuncDecl() (*ast.FuncDecl, *compilerr.CompileError) {
	start := p.cur().Span
	p.advance() // 'def'
	name, err := p.expect(token.Identifier, compilerr.ErrExpectedIdentifier, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen, compilerr.ErrUnexpectedToken, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []ast.Param
	for !p.check(token.RParen) {
		pname, err := p.expect(token.Identifier, compilerr.ErrExpectedIdentifier, "expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, compilerr.ErrMissingTypeAnnotation, "parameters require an explicit type"); err != nil {
			return nil, err
		}
		ptyp, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Text, Type: ptyp, Span: pname.Span})
		if !p.match(token.Comma) {
			break
		}
	}
	if _, err := p.expect(token.RParen, compilerr.ErrUnexpectedToken, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	retType := cbtype.Scalar(cbtype.Void)
	if p.match(token.Arrow) {
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name.Text, Params: params, ReturnType: retType, Body: body, Span: mergeSpan(start, body.Span)}, nil
}

// parseBlock expects ':' NEWLINE INDENT stmt+ DEDENT.
func (p *Parser) parseBlock() (ast.Block, *compilerr.CompileError) {
	start := p.cur().Span
	if _, err := p.expect(token.Colon, compilerr.ErrUnexpectedToken, "expected ':' to begin a block"); err != nil {
		return ast.Block{}, err
	}
	if _, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline before indented block"); err != nil {
		return ast.Block{}, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.Indent, compilerr.ErrUnexpectedToken, "expected an indented block"); err != nil {
		return ast.Block{}, err
	}

	var stmts []ast.Stmt
	for !p.check(token.Dedent) && !p.check(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return ast.Block{}, err
		}
		stmts = append(stmts, s)
		p.skipNewlines()
	}
	end := p.cur().Span
	if _, err := p.expect(token.Dedent, compilerr.ErrUnexpectedToken, "expected dedent at end of block"); err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Stmts: stmts, Span: mergeSpan(start, end)}, nil
}

func (p *Parser) parseStmt() (ast.Stmt, *compilerr.CompileError) {
	switch p.cur().Type {
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.For:
		return p.parseForStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.Break:
		s := p.advance()
		_, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after 'break'")
		return &ast.BreakStmt{Span: s.Span}, err
	case token.Continue:
		s := p.advance()
		_, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after 'continue'")
		return &ast.ContinueStmt{Span: s.Span}, err
	case token.Pass:
		s := p.advance()
		_, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after 'pass'")
		return &ast.PassStmt{Span: s.Span}, err
	case token.Const:
		return p.parseConstDecl()
	case token.Identifier:
		if p.peekAt(1).Type == token.Colon {
			return p.parseVarDecl()
		}
		return p.parseAssignOrExprStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, *compilerr.CompileError) {
	start := p.advance().Span // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: then, Span: mergeSpan(start, then.Span)}

	for p.check(token.Elif) {
		eStart := p.advance().Span
		eCond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		eBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Cond: eCond, Body: eBody, Span: mergeSpan(eStart, eBody.Span)})
		stmt.Span = mergeSpan(start, eBody.Span)
	}

	if p.check(token.Else) {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = &elseBody
		stmt.Span = mergeSpan(start, elseBody.Span)
	}
	return stmt, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, *compilerr.CompileError) {
	start := p.advance().Span // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Span: mergeSpan(start, body.Span)}, nil
}

func (p *Parser) parseForStmt() (*ast.ForStmt, *compilerr.CompileError) {
	start := p.advance().Span // 'for'
	name, err := p.expect(token.Identifier, compilerr.ErrExpectedIdentifier, "expected loop variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In, compilerr.ErrUnexpectedToken, "expected 'in' in for loop"); err != nil {
		return nil, err
	}
	low, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	downto := false
	if p.check(token.To) {
		p.advance()
	} else if p.check(token.Downto) {
		downto = true
		p.advance()
	} else {
		return nil, compilerr.New(compilerr.ErrUnexpectedToken, "expected 'to' or 'downto'", p.cur().Span)
	}
	high, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Var: name.Text, Low: low, High: high, Downto: downto, Body: body, Span: mergeSpan(start, body.Span)}, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, *compilerr.CompileError) {
	start := p.advance().Span // 'return'
	if p.check(token.Newline) {
		nl := p.advance()
		return &ast.ReturnStmt{Span: mergeSpan(start, nl.Span)}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	nl, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after return value")
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Span: mergeSpan(start, nl.Span)}, nil
}

var assignOps = map[token.Type]ast.AssignOp{
	token.Eq:        ast.Assign,
	token.PlusEq:    ast.AddAssign,
	token.MinusEq:   ast.SubAssign,
	token.StarEq:    ast.MulAssign,
	token.SlashEq:   ast.DivAssign,
	token.PercentEq: ast.ModAssign,
	token.AmpEq:     ast.AndAssign,
	token.PipeEq:    ast.OrAssign,
	token.CaretEq:   ast.XorAssign,
	token.ShlEq:     ast.ShlAssign,
	token.ShrEq:     ast.ShrAssign,
}

func (p *Parser) parseAssignOrExprStmt() (ast.Stmt, *compilerr.CompileError) {
	start := p.cur().Span
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if op, ok := assignOps[p.cur().Type]; ok {
		switch x.(type) {
		case *ast.Ident, *ast.IndexExpr:
		default:
			return nil, compilerr.New(compilerr.ErrInvalidAssignmentTarget,
				"invalid assignment target", x.SpanOf())
		}
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		nl, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after statement")
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: x, Op: op, Value: value, Span: mergeSpan(start, nl.Span)}, nil
	}

	nl, err := p.expect(token.Newline, compilerr.ErrExpectedNewline, "expected newline after statement")
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x, Span: mergeSpan(start, nl.Span)}, nil
}

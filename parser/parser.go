// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Implements a Recursive Descent Parser with Pratt Parsing for expressions.
//          It converts a stream of Tokens (from the Lexer) into an Abstract Syntax Tree (AST).
//          This component defines the grammar and syntax rules of Dust.
// ==============================================================================================

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/Bluewraith04/dust/ast"
	"github.com/Bluewraith04/dust/lexer"
	"github.com/Bluewraith04/dust/token"
)

// Precedence constants determine the order of operations in expressions.
// Higher values mean the operator binds more tightly.
const (
	_ int = iota
	LOWEST
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x, !x
	POWER       // ** (right-associative, binds tighter than unary minus)
	CALL        // postfix chain: f(x), a.b, a[i]
)

// precedences maps token types to their integer precedence level.
var precedences = map[token.TokenType]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NE:       EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LE:       LESSGREATER,
	token.GE:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.MOD:      PRODUCT,
	token.POWER:    POWER,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
	token.LBRACE:   CALL, // struct literal, gated by structLitOK
}

// Function types for Pratt Parsing
type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser struct holds the state of the parsing process.
type Parser struct {
	l         *lexer.Lexer // Pointer to the lexer
	curToken  token.Token  // The current token under examination
	peekToken token.Token  // The next token (lookahead)
	errors    []string     // Collection of syntax errors found

	// structLitOK gates the IDENT '{' struct-literal form. It is switched off
	// while parsing if/elif/while/for header expressions, where '{' must open
	// the statement block, and back on inside any parenthesized context.
	structLitOK bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New initializes a new Parser instance.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:           l,
		errors:      []string{},
		structLitOK: true,
	}

	// Register Prefix Parsing Functions (nuds)
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)

	// Register Infix Parsing Functions (leds)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.STAR, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.MOD, p.parseInfixExpression)
	p.registerInfix(token.POWER, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NE, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.LE, p.parseInfixExpression)
	p.registerInfix(token.GE, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseInfixExpression)
	p.registerInfix(token.OR, p.parseInfixExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberAccessExpression)
	p.registerInfix(token.LBRACE, p.parseStructLiteral)

	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// Parse is the driver entry point: it tokenizes and parses a source string.
// Diagnostics aggregate into a single SyntaxError; fully failed inputs yield
// a nil Program.
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return program, oops.Code("SyntaxError").Errorf("%s", strings.Join(errs, "\n"))
	}
	return program, nil
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek asserts that the next token is of a specific type.
// If it is, it advances the parser. If not, it records an error.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("line %d:%d - expected next token to be %s, got %s instead",
		p.peekToken.Line, p.peekToken.Column, t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram is the entry point for parsing. It iterates through tokens,
// constructs the root AST node and recovers at statement boundaries after a
// failed statement. Fully failed inputs yield nil.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	if len(p.errors) > 0 && len(program.Statements) == 0 {
		return nil
	}
	return program
}

// synchronize advances to the nearest statement or declaration boundary so
// that one syntax error does not cascade through the rest of the input.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) {
			return
		}
		switch p.peekToken.Type {
		case token.LET, token.IF, token.WHILE, token.FOR, token.RETURN,
			token.FN, token.STRUCT, token.IMPORT:
			return
		}
		p.nextToken()
	}
}

// parseStatement determines the kind of top-level item or statement based on
// the current token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.FN:
		return p.parseFunctionDeclaration()
	case token.STRUCT:
		return p.parseStructDeclaration()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseBlockStatement parses '{' statement* '}'. On entry curToken is '{';
// on exit it is the matching '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
			if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
				break
			}
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.errorf("line %d - unterminated block, expected }", p.curToken.Line)
	}
	return block
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseExpressionOrAssignStatement parses either an expression statement or
// an assignment, decided by the token after the expression. Assignment
// targets must be place expressions rooted at an identifier.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	startToken := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		assignToken := p.curToken
		if !isPlaceExpression(expr) {
			p.errorf("line %d - invalid assignment target: %s", assignToken.Line, expr.String())
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return &ast.AssignStatement{Token: assignToken, Target: expr, Value: value}
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.ExpressionStatement{Token: startToken, Expression: expr}
}

// isPlaceExpression reports whether expr designates a mutable location:
// an identifier, or a member/index chain rooted at one.
func isPlaceExpression(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier:
		return true
	case *ast.MemberAccessExpression:
		return isPlaceExpression(e.Object)
	case *ast.IndexExpression:
		return isPlaceExpression(e.Left)
	default:
		return false
	}
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	cond := p.parseHeaderExpression()
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Branches = append(stmt.Branches, ast.IfBranch{Condition: cond, Body: p.parseBlockStatement()})

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		p.nextToken()
		cond := p.parseHeaderExpression()
		if cond == nil {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Condition: cond, Body: p.parseBlockStatement()})
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Else = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseHeaderExpression()
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseHeaderExpression()
	if stmt.Iterable == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	decl := &ast.FunctionDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	decl.Parameters = p.parseFunctionParameters()
	if decl.Parameters == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()
	return decl
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	params := []*ast.Identifier{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// parseStructDeclaration parses 'struct' ID '{' (ID ',')* '}' ';'.
// Every declared field carries a trailing comma.
func (p *Parser) parseStructDeclaration() ast.Statement {
	decl := &ast.StructDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	decl.Fields = []*ast.Identifier{}
	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decl.Fields = append(decl.Fields, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	stmt.Path = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseExpression manages precedence to parse expressions correctly.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("line %d - no prefix parse function for %s (%q)",
			p.curToken.Line, p.curToken.Type, p.curToken.Literal)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		if p.peekTokenIs(token.LBRACE) {
			// The struct-literal form only applies to a bare type name, and
			// never inside a statement header.
			if _, isIdent := leftExp.(*ast.Identifier); !isIdent || !p.structLitOK {
				return leftExp
			}
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

// parseHeaderExpression parses a condition or iterable in a statement header,
// where '{' always opens the following block rather than a struct literal.
func (p *Parser) parseHeaderExpression() ast.Expression {
	saved := p.structLitOK
	p.structLitOK = false
	defer func() { p.structLitOK = saved }()
	return p.parseExpression(LOWEST)
}

// --- Prefix Parsing Functions ---

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	val, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("line %d - could not parse %q as integer", p.curToken.Line, p.curToken.Literal)
		return nil
	}
	lit.Value = val
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	val, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("line %d - could not parse %q as float", p.curToken.Line, p.curToken.Literal)
		return nil
	}
	lit.Value = val
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	exp := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	exp.Right = p.parseExpression(PREFIX)
	if exp.Right == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	saved := p.structLitOK
	p.structLitOK = true
	defer func() { p.structLitOK = saved }()

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}
	arr.Elements = p.parseExpressionList(token.RBRACKET)
	if arr.Elements == nil {
		return nil
	}
	return arr
}

// parseExpressionList parses comma-separated lists (array elements, call
// arguments) up to the given closing token.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	saved := p.structLitOK
	p.structLitOK = true
	defer func() { p.structLitOK = saved }()

	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	list = append(list, first)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil
		}
		list = append(list, next)
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// --- Infix Parsing Functions ---

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	exp := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	if p.curTokenIs(token.POWER) {
		// Right-associative: let the right side claim another ** at the
		// same level.
		precedence--
	}
	p.nextToken()
	exp.Right = p.parseExpression(precedence)
	if exp.Right == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Function: fn}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	if exp.Arguments == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	saved := p.structLitOK
	p.structLitOK = true
	defer func() { p.structLitOK = saved }()

	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

func (p *Parser) parseMemberAccessExpression(left ast.Expression) ast.Expression {
	exp := &ast.MemberAccessExpression{Token: p.curToken, Object: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	exp.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return exp
}

// parseStructLiteral parses TypeName '{' name: value, ... '}'. The caller
// guarantees left is an identifier.
func (p *Parser) parseStructLiteral(left ast.Expression) ast.Expression {
	nameIdent := left.(*ast.Identifier)
	lit := &ast.StructLiteral{Token: nameIdent.Token, TypeName: nameIdent}
	lit.Fields = []ast.StructField{}

	saved := p.structLitOK
	p.structLitOK = true
	defer func() { p.structLitOK = saved }()

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return lit
	}

	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := ast.StructField{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if field.Value == nil {
			return nil
		}
		lit.Fields = append(lit.Fields, field)
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return lit
}

package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/nt54hamnghi/rslox/token"
	"github.com/nt54hamnghi/rslox/utils"
)

// Lex scans the source text in a single pass and returns the token
// sequence, always terminated by exactly one EOF token. Lexical errors
// are collected with errors.Join; an error never aborts the scan.
func Lex(source string) ([]token.Token, error) {
	lexer := lexer{
		source:  source,
		tokens:  []token.Token{},
		start:   0,
		current: 0,
		line:    1,
	}

	var err error

	for !lexer.isAtEnd() {
		err = errors.Join(err, lexer.scanToken())
	}

	lexer.tokens = append(lexer.tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: lexer.line, Literal: nil})

	return lexer.tokens, err
}

type lexer struct {
	source string
	tokens []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l lexer) peekNext() rune {
	_, width := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+width >= len(l.source) {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current+width:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width

	return runeValue
}

// match consumes the next character only if it equals expected.
// Maximal munch for the two-character operators hangs on this.
func (l *lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()

	return true
}

func (l *lexer) addToken(kind token.Kind, literal any) {
	text := l.source[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: text, Line: l.line, Literal: literal})
}

type UnexpectedCharacterError struct {
	Char rune
}

func (e UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("Unexpected character: %c", e.Char)
}

type UnterminatedStringError struct{}

func (e UnterminatedStringError) Error() string {
	return "Unterminated string."
}

func (l *lexer) scanToken() error {
	l.start = l.current
	char := l.advance()
	switch char {
	case ' ', '\r', '\t':
		// ignore whitespace
		return nil
	case '\n':
		l.line++

		return nil
	case '(':
		l.addToken(token.LEFTPAREN, nil)
	case ')':
		l.addToken(token.RIGHTPAREN, nil)
	case '{':
		l.addToken(token.LEFTBRACE, nil)
	case '}':
		l.addToken(token.RIGHTBRACE, nil)
	case ',':
		l.addToken(token.COMMA, nil)
	case '.':
		l.addToken(token.DOT, nil)
	case '-':
		l.addToken(token.MINUS, nil)
	case '+':
		l.addToken(token.PLUS, nil)
	case ';':
		l.addToken(token.SEMICOLON, nil)
	case '*':
		l.addToken(token.STAR, nil)
	case '!':
		if l.match('=') {
			l.addToken(token.BANGEQUAL, nil)
		} else {
			l.addToken(token.BANG, nil)
		}
	case '=':
		if l.match('=') {
			l.addToken(token.EQUALEQUAL, nil)
		} else {
			l.addToken(token.EQUAL, nil)
		}
	case '<':
		if l.match('=') {
			l.addToken(token.LESSEQUAL, nil)
		} else {
			l.addToken(token.LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.addToken(token.GREATEREQUAL, nil)
		} else {
			l.addToken(token.GREATER, nil)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.SLASH, nil)
		}
	case '"':
		return l.string()
	default:
		if isDigit(char) {
			return l.number()
		}
		if isAlpha(char) {
			return l.identifier()
		}

		return utils.Report{Line: l.line, Err: UnexpectedCharacterError{Char: char}}
	}

	return nil
}

func (l *lexer) string() error {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		return utils.Report{Line: l.line, Err: UnterminatedStringError{}}
	}

	// the closing quote
	l.advance()

	value := l.source[l.start+1 : l.current-1]
	l.addToken(token.STRING, value)

	return nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) number() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A fractional part needs a digit after the dot; a trailing dot
	// stays outside the number.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// Out-of-range literals saturate to ±Inf; ParseFloat still returns
	// the saturated value alongside ErrRange.
	value, err := strconv.ParseFloat(l.source[l.start:l.current], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return utils.Report{Line: l.line, Err: fmt.Errorf("invalid number: %w", err)}
	}
	l.addToken(token.NUMBER, value)

	return nil
}

func isAlpha(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func (l *lexer) identifier() error {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	value := l.source[l.start:l.current]

	if k, ok := getKeyword(value); ok {
		l.addToken(k, nil)
	} else {
		l.addToken(token.IDENTIFIER, nil)
	}

	return nil
}

var keywords = map[string]token.Kind{
	"and":    token.AND,
	"class":  token.CLASS,
	"else":   token.ELSE,
	"false":  token.FALSE,
	"for":    token.FOR,
	"fun":    token.FUN,
	"if":     token.IF,
	"nil":    token.NIL,
	"or":     token.OR,
	"print":  token.PRINT,
	"return": token.RETURN,
	"super":  token.SUPER,
	"this":   token.THIS,
	"true":   token.TRUE,
	"var":    token.VAR,
	"while":  token.WHILE,
}

func getKeyword(str string) (token.Kind, bool) {
	if k, ok := keywords[str]; ok {
		return k, true
	}

	return token.IDENTIFIER, false
}

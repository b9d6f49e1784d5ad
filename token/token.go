package token

import (
	"fmt"
	"math"
	"strconv"
)

type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR

	// One or two character tokens.
	BANG
	BANGEQUAL
	EQUAL
	EQUALEQUAL
	GREATER
	GREATEREQUAL
	LESS
	LESSEQUAL

	// Literals and identifiers.
	IDENTIFIER
	STRING
	NUMBER

	// Keywords.
	AND
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

var kindNames = map[Kind]string{
	EOF:          "EOF",
	LEFTPAREN:    "LEFT_PAREN",
	RIGHTPAREN:   "RIGHT_PAREN",
	LEFTBRACE:    "LEFT_BRACE",
	RIGHTBRACE:   "RIGHT_BRACE",
	COMMA:        "COMMA",
	DOT:          "DOT",
	MINUS:        "MINUS",
	PLUS:         "PLUS",
	SEMICOLON:    "SEMICOLON",
	SLASH:        "SLASH",
	STAR:         "STAR",
	BANG:         "BANG",
	BANGEQUAL:    "BANG_EQUAL",
	EQUAL:        "EQUAL",
	EQUALEQUAL:   "EQUAL_EQUAL",
	GREATER:      "GREATER",
	GREATEREQUAL: "GREATER_EQUAL",
	LESS:         "LESS",
	LESSEQUAL:    "LESS_EQUAL",
	IDENTIFIER:   "IDENTIFIER",
	STRING:       "STRING",
	NUMBER:       "NUMBER",
	AND:          "AND",
	CLASS:        "CLASS",
	ELSE:         "ELSE",
	FALSE:        "FALSE",
	FOR:          "FOR",
	FUN:          "FUN",
	IF:           "IF",
	NIL:          "NIL",
	OR:           "OR",
	PRINT:        "PRINT",
	RETURN:       "RETURN",
	SUPER:        "SUPER",
	THIS:         "THIS",
	TRUE:         "TRUE",
	VAR:          "VAR",
	WHILE:        "WHILE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Literal any
}

// String renders the token in the tokenize output format:
// `<KIND> <lexeme> <literal-or-null>`.
func (t Token) String() string {
	return fmt.Sprintf("%v %s %s", t.Kind, t.Lexeme, DisplayLiteral(t.Literal))
}

func (t Token) Base() Token {
	return t
}

// DisplayLiteral renders a literal payload the way the CLI prints it.
// Numbers with no fractional part always carry one decimal place.
func DisplayLiteral(literal any) string {
	switch v := literal.(type) {
	case nil:
		return "null"
	case float64:
		if math.Trunc(v) == v && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', 1, 64)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

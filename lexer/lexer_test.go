package lexer_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"github.com/nt54hamnghi/rslox/lexer"
	"github.com/nt54hamnghi/rslox/token"
	"github.com/nt54hamnghi/rslox/utils"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Errorf("failed to find test files: %v", err)
		return
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Errorf("failed to read %s: %v", testfile, err)
			return
		}

		tokens, err := lexer.Lex(string(source))
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			return
		}

		var builder strings.Builder
		for _, tok := range tokens {
			builder.WriteString(tok.String())
			builder.WriteString("\n")
		}

		name := strings.TrimSuffix(filepath.Base(testfile), ".lox")
		g := goldie.New(t)
		g.Assert(t, name, []byte(builder.String()))
	}
}

func kinds(tokens []token.Token) []token.Kind {
	ks := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func TestMaximalMunch(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("<<<=>>=!= == =")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []token.Kind{
		token.LESS, token.LESS, token.LESSEQUAL,
		token.GREATER, token.GREATEREQUAL,
		token.BANGEQUAL, token.EQUALEQUAL, token.EQUAL,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberTrailingDot(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("123.")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []token.Kind{token.NUMBER, token.DOT, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Literal != 123.0 {
		t.Errorf("Lex literal = %v, want 123.0", tokens[0].Literal)
	}
}

func TestNumberOutOfRange(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(strings.Repeat("9", 400) + ";")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	// the literal saturates instead of vanishing
	want := []token.Kind{token.NUMBER, token.SEMICOLON, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
	value, ok := tokens[0].Literal.(float64)
	if !ok || !math.IsInf(value, 1) {
		t.Errorf("Lex literal = %v, want +Inf", tokens[0].Literal)
	}
}

func TestMultilineString(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("\"a\nb\" x")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []token.Kind{token.STRING, token.IDENTIFIER, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
	if got, wantPayload := tokens[0].Literal, "a\nb"; got != wantPayload {
		t.Errorf("Lex literal = %q, want %q", got, wantPayload)
	}
	// the newline inside the string still advances the line counter
	if tokens[1].Line != 2 {
		t.Errorf("Lex line = %d, want 2", tokens[1].Line)
	}
}

func TestComment(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("// a comment\n1 / 2")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	want := []token.Kind{token.NUMBER, token.SLASH, token.NUMBER, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Line != 2 {
		t.Errorf("Lex line = %d, want 2", tokens[0].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(`"abc`)
	if err == nil {
		t.Fatal("Lex returned no error for an unterminated string")
	}
	if got, want := err.Error(), "[line 1] Error: Unterminated string."; got != want {
		t.Errorf("Lex error = %q, want %q", got, want)
	}

	// no usable token for the broken literal, still a clean EOF
	want := []token.Kind{token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}
}

func TestUnexpectedCharacters(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex(",.$(#")
	if err == nil {
		t.Fatal("Lex returned no error for unexpected characters")
	}

	// the scan continues past each bad character
	want := []token.Kind{token.COMMA, token.DOT, token.LEFTPAREN, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("Lex mismatch (-want +got):\n%s", diff)
	}

	wantErrs := []string{
		"[line 1] Error: Unexpected character: $",
		"[line 1] Error: Unexpected character: #",
	}
	var gotErrs []string
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range errs.Unwrap() {
			gotErrs = append(gotErrs, e.Error())
		}
	} else {
		gotErrs = []string{err.Error()}
	}
	if diff := cmp.Diff(wantErrs, gotErrs); diff != "" {
		t.Errorf("Lex errors mismatch (-want +got):\n%s", diff)
	}
}

func TestAlwaysEndsWithEOF(t *testing.T) {
	t.Parallel()

	inputs := []string{"", " \t\n ", "var x = 1;", `"open`, "@#$", "// only a comment"}
	for _, input := range inputs {
		tokens, _ := lexer.Lex(input)
		if len(tokens) == 0 {
			t.Errorf("Lex(%q) returned no tokens", input)
			continue
		}
		last := tokens[len(tokens)-1]
		if last.Kind != token.EOF {
			t.Errorf("Lex(%q) last token = %v, want EOF", input, last.Kind)
		}
		for _, tok := range tokens[:len(tokens)-1] {
			if tok.Kind == token.EOF {
				t.Errorf("Lex(%q) produced more than one EOF token", input)
			}
		}
	}
}

func TestLexemesReconstructSource(t *testing.T) {
	t.Parallel()

	source := "var answer = (6 * 7) >= 41.5; print answer;"
	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Lexeme)
	}
	want := strings.Join(strings.Fields(source), "")
	if got := b.String(); got != want {
		t.Errorf("concatenated lexemes = %q, want %q", got, want)
	}
}

package region

import (
	"errors"
	"testing"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("lex %q: %v", input, err)
		}
		if tok.Type == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerShapeStatement(t *testing.T) {
	toks := lexAll(t, "circle(1.5,2,3)")
	want := []struct {
		typ TokenType
		lit string
	}{
		{TokenShapeName, "circle"},
		{TokenLParen, "("},
		{TokenProperty, "1.5"},
		{TokenComma, ","},
		{TokenProperty, "2"},
		{TokenComma, ","},
		{TokenProperty, "3"},
		{TokenRParen, ")"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(want))
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Literal != w.lit {
			t.Errorf("token %d: got %v, want {%v, %q}", i, toks[i], w.typ, w.lit)
		}
	}
}

func TestLexerBareCoordinateList(t *testing.T) {
	toks := lexAll(t, "circle 5 3 54")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens %v, want 4", len(toks), toks)
	}
	for i, lit := range []string{"5", "3", "54"} {
		tok := toks[i+1]
		if tok.Type != TokenProperty || tok.Literal != lit {
			t.Errorf("token %d: got %v, want coordinate %q", i+1, tok, lit)
		}
	}
}

func TestLexerUnitSuffixTokens(t *testing.T) {
	toks := lexAll(t, `circle(14:20:30.5,-2:3:4,3.0")`)
	lits := []string{"14:20:30.5", "-2:3:4", `3.0"`}
	got := 0
	for _, tok := range toks {
		if tok.Type == TokenProperty {
			if got >= len(lits) || tok.Literal != lits[got] {
				t.Fatalf("coordinate %d: got %q, want %q", got, tok.Literal, lits[got])
			}
			got++
		}
	}
	if got != len(lits) {
		t.Fatalf("got %d coordinate tokens, want %d", got, len(lits))
	}
}

func TestLexerCommentBlock(t *testing.T) {
	toks := lexAll(t, "circle 5 3 54 # color=red tag={Group 1}\n")
	want := []struct {
		typ TokenType
		lit string
	}{
		{TokenShapeName, "circle"},
		{TokenProperty, "5"},
		{TokenProperty, "3"},
		{TokenProperty, "54"},
		{TokenComment, "#"},
		{TokenPropOneArg, "color"},
		{TokenEq, "="},
		{TokenParameter, "red"},
		{TokenTag, "tag"},
		{TokenEq, "="},
		{TokenQuoted, "Group 1"},
		{TokenDelimiter, "\n"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(want))
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Literal != w.lit {
			t.Errorf("token %d: got %v, want {%v, %q}", i, toks[i], w.typ, w.lit)
		}
	}
}

func TestLexerGlobal(t *testing.T) {
	toks := lexAll(t, `global color=green font="helvetica 10 normal" source=1`)
	if toks[0].Type != TokenGlobal {
		t.Fatalf("first token: got %v, want global", toks[0])
	}
	var quoted, noarg bool
	for _, tok := range toks {
		if tok.Type == TokenQuoted && tok.Literal == "helvetica 10 normal" {
			quoted = true
		}
		if tok.Type == TokenPropNoArg && tok.Literal == "source" {
			noarg = true
		}
	}
	if !quoted || !noarg {
		t.Errorf("tokens %v: quoted=%v noarg=%v, want both", toks, quoted, noarg)
	}
}

func TestLexerCoordSysCanonicalized(t *testing.T) {
	toks := lexAll(t, "j2000;b1950;icrs")
	var names []string
	for _, tok := range toks {
		if tok.Type == TokenCoordSys {
			names = append(names, tok.Literal)
		}
	}
	want := []string{"fk5", "fk4", "icrs"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("coordsys %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLexerTopLevelComment(t *testing.T) {
	toks := lexAll(t, "# Region file format: DS9\ncircle(1,2,3)")
	if len(toks) == 0 || toks[0].Type != TokenShapeName {
		t.Fatalf("got %v, want the comment line skipped", toks)
	}
}

func TestLexerUnsupportedDirectives(t *testing.T) {
	for _, input := range []string{"wcs;circle(1,2,3)", "wcsa;circle(1,2,3)", "wcsp;circle(1,2,3)", "tile 2;circle(1,2,3)"} {
		l := NewLexer(input)
		var err error
		for {
			var tok Token
			tok, err = l.NextToken()
			if err != nil || tok.Type == TokenEOF {
				break
			}
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("lex %q: got %v, want ErrParse", input, err)
		}
	}
}

func TestLexerUnknownWord(t *testing.T) {
	l := NewLexer("fulcrum(1,2,3)")
	_, err := l.NextToken()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want ErrParse", err)
	}
}

package region

import (
	"fmt"
	"strings"

	"github.com/sargas/pyregion/wcs"
)

// TokenType classifies lexer tokens.
type TokenType int

const (
	TokenEOF TokenType = iota

	// Top-level (INITIAL) tokens.
	TokenDelimiter // ';' or newline
	TokenShapeName // a registered shape keyword; switches to the proplist mode
	TokenCoordSys  // a coordinate-system directive, literal canonicalized
	TokenInclude   // '+' or '-' preceding a shape
	TokenGlobal    // the "global" keyword; switches to the shapecomment mode

	// proplist mode tokens.
	TokenProperty // one raw coordinate token
	TokenComma
	TokenLParen
	TokenRParen
	TokenComment // '#' after a proplist; switches to the shapecomment mode

	// shapecomment mode tokens.
	TokenEq
	TokenParameter  // unclassified bare word
	TokenQuoted     // "…", {…} or '…' with the delimiters stripped
	TokenPropOneArg // key taking one value
	TokenPropTwoArg // key taking two values
	TokenPropNoArg  // bare source/background flag
	TokenTag        // the accumulating "tag" key
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF: "EOF", TokenDelimiter: "delimiter", TokenShapeName: "shape",
	TokenCoordSys: "coordsys", TokenInclude: "include", TokenGlobal: "global",
	TokenProperty: "coordinate", TokenComma: "','", TokenLParen: "'('",
	TokenRParen: "')'", TokenComment: "'#'", TokenEq: "'='",
	TokenParameter: "parameter", TokenQuoted: "quoted value",
	TokenPropOneArg: "property", TokenPropTwoArg: "property",
	TokenPropNoArg: "property", TokenTag: "tag",
}

func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexer token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Property key classification for the shapecomment mode, per the DS9
// attribute catalog.
var (
	oneArgProperties = map[string]bool{
		"color": true, "text": true, "width": true, "font": true,
		"select": true, "highlite": true, "dash": true, "fixed": true,
		"edit": true, "move": true, "rotate": true, "delete": true,
		"ruler": true, "include": true,
	}
	twoArgProperties = map[string]bool{
		"dashlist": true, "line": true, "point": true,
	}
	noArgProperties = map[string]bool{
		"source": true, "background": true,
	}
)

type lexMode int

const (
	modeInitial lexMode = iota
	modeProplist
	modeShapeComment
)

// Lexer tokenizes region file text with three exclusive modes: the
// top-level INITIAL mode, the proplist mode entered after a shape name,
// and the shapecomment mode entered at a '#' property block or after the
// "global" keyword.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	mode    lexMode
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) skipBlank() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token, or an error for characters and
// directives the grammar rejects outright.
func (l *Lexer) NextToken() (Token, error) {
	switch l.mode {
	case modeProplist:
		return l.proplistToken()
	case modeShapeComment:
		return l.shapeCommentToken()
	default:
		return l.initialToken()
	}
}

func (l *Lexer) initialToken() (Token, error) {
	for {
		l.skipBlank()
		if l.ch == '#' {
			// Whole-line comment at the top level.
			for l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}
			continue
		}
		break
	}

	pos := l.pos
	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case l.ch == '\n' || l.ch == ';':
		lit := string(l.ch)
		l.readChar()
		return Token{Type: TokenDelimiter, Literal: lit, Pos: pos}, nil
	case l.ch == '+' || l.ch == '-':
		lit := string(l.ch)
		l.readChar()
		return Token{Type: TokenInclude, Literal: lit, Pos: pos}, nil
	case isLetter(l.ch):
		word := l.readWord()
		lower := strings.ToLower(word)
		switch {
		case lower == "global":
			l.mode = modeShapeComment
			return Token{Type: TokenGlobal, Literal: lower, Pos: pos}, nil
		case isUnsupportedDirective(lower):
			return Token{}, parseErrorf(pos, "unsupported directive %q", word)
		case shapeDefs[lower] != nil:
			l.mode = modeProplist
			return Token{Type: TokenShapeName, Literal: lower, Pos: pos}, nil
		default:
			if f, ok := wcs.FrameByName(lower); ok {
				return Token{Type: TokenCoordSys, Literal: f.Name(), Pos: pos}, nil
			}
			return Token{}, parseErrorf(pos, "unexpected word %q", word)
		}
	default:
		return Token{}, parseErrorf(pos, "unexpected character %q", string(l.ch))
	}
}

func (l *Lexer) proplistToken() (Token, error) {
	l.skipBlank()
	pos := l.pos
	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case l.ch == '\n' || l.ch == ';':
		lit := string(l.ch)
		l.readChar()
		l.mode = modeInitial
		return Token{Type: TokenDelimiter, Literal: lit, Pos: pos}, nil
	case l.ch == '#':
		l.readChar()
		l.mode = modeShapeComment
		return Token{Type: TokenComment, Literal: "#", Pos: pos}, nil
	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}, nil
	case isCoordinateChar(l.ch):
		start := l.pos
		for isCoordinateChar(l.ch) {
			l.readChar()
		}
		return Token{Type: TokenProperty, Literal: l.input[start:l.pos], Pos: pos}, nil
	default:
		return Token{}, parseErrorf(pos, "unexpected character %q in coordinate list", string(l.ch))
	}
}

func (l *Lexer) shapeCommentToken() (Token, error) {
	l.skipBlank()
	pos := l.pos
	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil
	case l.ch == '\n':
		l.readChar()
		l.mode = modeInitial
		return Token{Type: TokenDelimiter, Literal: "\n", Pos: pos}, nil
	case l.ch == '=':
		l.readChar()
		return Token{Type: TokenEq, Literal: "=", Pos: pos}, nil
	case l.ch == '"' || l.ch == '\'' || l.ch == '{':
		return l.quotedToken()
	default:
		start := l.pos
		for l.ch != 0 && !strings.ContainsRune("\n\t\r= {'\"", rune(l.ch)) {
			l.readChar()
		}
		if l.pos == start {
			return Token{}, parseErrorf(pos, "unexpected character %q in property block", string(l.ch))
		}
		word := l.input[start:l.pos]
		typ := TokenParameter
		switch {
		case word == "tag":
			typ = TokenTag
		case oneArgProperties[word]:
			typ = TokenPropOneArg
		case twoArgProperties[word]:
			typ = TokenPropTwoArg
		case noArgProperties[word]:
			typ = TokenPropNoArg
		}
		return Token{Type: typ, Literal: word, Pos: pos}, nil
	}
}

func (l *Lexer) quotedToken() (Token, error) {
	pos := l.pos
	open := l.ch
	closing := open
	if open == '{' {
		closing = '}'
	}
	l.readChar()
	start := l.pos
	for l.ch != 0 && l.ch != closing && l.ch != '\n' {
		l.readChar()
	}
	if l.ch != closing {
		return Token{}, parseErrorf(pos, "unterminated %q quoted value", string(open))
	}
	value := l.input[start:l.pos]
	l.readChar()
	return Token{Type: TokenQuoted, Literal: value, Pos: pos}, nil
}

func (l *Lexer) readWord() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isUnsupportedDirective matches the DS9 directives the grammar refuses:
// the per-WCS selectors "wcs", "wcsa".."wcsz", and "tile".
func isUnsupportedDirective(word string) bool {
	if word == "tile" {
		return true
	}
	if word == "wcs" {
		return true
	}
	return len(word) == 4 && word[:3] == "wcs" && word[3] >= 'a' && word[3] <= 'z'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// isCoordinateChar matches the characters a raw coordinate token may
// contain: digits, decimal points, sexagesimal separators, unit suffixes
// and signs.
func isCoordinateChar(ch byte) bool {
	switch {
	case isDigit(ch):
		return true
	case ch == '.' || ch == ':' || ch == '+' || ch == '-':
		return true
	case ch == 'h' || ch == 'd' || ch == 'm' || ch == 's':
		return true
	case ch == 'p' || ch == 'i' || ch == 'r':
		return true
	case ch == '"' || ch == '\'':
		return true
	}
	return false
}

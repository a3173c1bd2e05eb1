package region

import (
	"fmt"
	"io"
	"os"

	"github.com/sargas/pyregion/wcs"
)

// Parser consumes lexer tokens and builds a ShapeList. Each Parse call
// uses a fresh parse context: the coordinate system starts at physical
// and global properties start empty.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token

	system wcs.Frame
	global map[string]any
}

// Parse parses region-file text into a ShapeList. Parsing is fail-fast:
// the first lexical or grammatical error aborts and nothing is returned.
func Parse(input string) (ShapeList, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	return p.parseDocument()
}

// ParseFile reads and parses one region file.
func ParseFile(path string) (ShapeList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region file: %w", err)
	}
	return Parse(string(data))
}

// ParseReader parses region-file text from r.
func ParseReader(r io.Reader) (ShapeList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read region input: %w", err)
	}
	return Parse(string(data))
}

func newParser(input string) (*Parser, error) {
	p := &Parser{
		lexer:  NewLexer(input),
		system: wcs.Physical,
		global: make(map[string]any),
	}
	// Prime cur and peek.
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	p.cur = p.peek
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) parseDocument() (ShapeList, error) {
	var shapes ShapeList
	for p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenDelimiter:
			if err := p.next(); err != nil {
				return nil, err
			}
		case TokenCoordSys:
			frame, ok := wcs.FrameByName(p.cur.Literal)
			if !ok {
				return nil, parseErrorf(p.cur.Pos, "unknown coordinate system %q", p.cur.Literal)
			}
			Logger().Debug("coordinate system set", "system", frame.Name())
			p.system = frame
			if err := p.next(); err != nil {
				return nil, err
			}
		case TokenGlobal:
			if err := p.next(); err != nil {
				return nil, err
			}
			props, err := p.parsePropertyBlock()
			if err != nil {
				return nil, err
			}
			mergeProps(p.global, props)
		case TokenInclude:
			include := p.cur.Literal
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.cur.Type != TokenShapeName {
				return nil, parseErrorf(p.cur.Pos, "expected shape after %q, got %v", include, p.cur.Type)
			}
			s, err := p.parseShape(include)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, s)
		case TokenShapeName:
			s, err := p.parseShape("")
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, s)
		default:
			return nil, parseErrorf(p.cur.Pos, "unexpected %v token %q", p.cur.Type, p.cur.Literal)
		}
	}
	return shapes, nil
}

// parseShape parses one shape statement: the name, its coordinate list
// (parenthesized or bare), and an optional '#' property block.
func (p *Parser) parseShape(include string) (*Shape, error) {
	name := p.cur.Literal
	pos := p.cur.Pos
	if err := p.next(); err != nil {
		return nil, err
	}

	var toks []string
	parens := 0
readCoords:
	for {
		switch p.cur.Type {
		case TokenProperty:
			toks = append(toks, p.cur.Literal)
		case TokenLParen:
			parens++
		case TokenRParen:
			parens--
			if parens < 0 {
				return nil, parseErrorf(p.cur.Pos, "unbalanced ')' in %s", name)
			}
		case TokenComma:
			// Separator only.
		default:
			break readCoords
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if parens != 0 {
		return nil, parseErrorf(pos, "unbalanced '(' in %s", name)
	}

	local := make(map[string]any)
	if p.cur.Type == TokenComment {
		if err := p.next(); err != nil {
			return nil, err
		}
		props, err := p.parsePropertyBlock()
		if err != nil {
			return nil, err
		}
		local = props
	}

	merged := make(map[string]any, len(p.global)+len(local)+1)
	mergeProps(merged, p.global)
	mergeProps(merged, local)
	switch include {
	case "+":
		merged["include"] = "1"
	case "-":
		merged["include"] = "0"
	}

	s, err := FromCoordlist(name, toks, p.system, NewProperties(merged))
	if err != nil {
		return nil, fmt.Errorf("%w at position %d: %w", ErrParse, pos, err)
	}
	Logger().Debug("shape parsed", "shape", name, "system", p.system.Name(), "coords", len(toks))
	return s, nil
}

// parsePropertyBlock parses the key/value sequence following a '#' or the
// "global" keyword, up to the end of the line. Keys take values per the
// DS9 attribute catalog; unrecognized words are skipped.
func (p *Parser) parsePropertyBlock() (map[string]any, error) {
	props := make(map[string]any)
	for p.cur.Type != TokenDelimiter && p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenTag:
			value, err := p.propertyValue()
			if err != nil {
				return nil, err
			}
			tags, _ := props["tag"].([]string)
			props["tag"] = append(tags, value)
		case TokenPropOneArg:
			key := p.cur.Literal
			value, err := p.propertyValue()
			if err != nil {
				return nil, err
			}
			props[key] = value
		case TokenPropTwoArg:
			key := p.cur.Literal
			first, err := p.propertyValue()
			if err != nil {
				return nil, err
			}
			values := []string{first}
			// The second value is optional; only a plain word or quoted
			// value continues the pair.
			if p.peek.Type == TokenParameter || p.peek.Type == TokenQuoted {
				if err := p.next(); err != nil {
					return nil, err
				}
				values = append(values, p.cur.Literal)
			}
			props[key] = values
		case TokenPropNoArg:
			flag := p.cur.Literal
			if p.peek.Type == TokenEq {
				// "source=0" flips the flag to its complement.
				value, err := p.propertyValue()
				if err != nil {
					return nil, err
				}
				if value == "0" {
					if flag == "source" {
						flag = "background"
					} else {
						flag = "source"
					}
				}
			}
			props["sourcebackground"] = flag
		case TokenParameter, TokenQuoted:
			// Unrecognized word; skip it, and skip an "=value" if present.
			if p.peek.Type == TokenEq {
				if _, err := p.propertyValue(); err != nil {
					return nil, err
				}
			}
		default:
			return nil, parseErrorf(p.cur.Pos, "unexpected %v token %q in property block", p.cur.Type, p.cur.Literal)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// propertyValue consumes "= value" after the key at cur and returns the
// value literal, leaving cur on the value token.
func (p *Parser) propertyValue() (string, error) {
	key := p.cur.Literal
	if p.peek.Type != TokenEq {
		return "", parseErrorf(p.cur.Pos, "property %q requires a value", key)
	}
	if err := p.next(); err != nil { // onto '='
		return "", err
	}
	if err := p.next(); err != nil { // onto the value
		return "", err
	}
	switch p.cur.Type {
	case TokenParameter, TokenQuoted, TokenPropOneArg, TokenPropTwoArg, TokenPropNoArg, TokenTag:
		return p.cur.Literal, nil
	default:
		return "", parseErrorf(p.cur.Pos, "property %q requires a value, got %v", key, p.cur.Type)
	}
}

// mergeProps overlays src onto dst. Scalar and pair values replace, tag
// lists accumulate.
func mergeProps(dst, src map[string]any) {
	for k, v := range src {
		if k == "tag" {
			ts, _ := v.([]string)
			existing, _ := dst["tag"].([]string)
			dst["tag"] = append(append([]string(nil), existing...), ts...)
			continue
		}
		if vs, ok := v.([]string); ok {
			dst[k] = append([]string(nil), vs...)
			continue
		}
		dst[k] = v
	}
}

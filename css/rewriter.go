// Package css walks stylesheets declaration by declaration and lets caller
// replace declaration values, leaving every other byte of the input intact.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Declaration is a single "property: value" pair found inside a block.
type Declaration struct {
	Property string // as written in the source, e.g. "margin-top" or "--gap"
	Value    string // value without surrounding whitespace
	Line     int    // 1-based line where declaration starts
}

// DeclarationFunc returns replacement for the declaration value. Returning
// d.Value leaves declaration unchanged.
type DeclarationFunc func(d Declaration) string

// Rewriter visits every declaration of a stylesheet exactly once.
type Rewriter struct {
	log *zap.Logger
}

// NewRewriter creates a new stylesheet rewriter.
func NewRewriter(log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{log: log.Named("css-rewriter")}
}

type token struct {
	tt   css.TokenType
	text string
}

// statement accumulates tokens between ';', '{' and '}' on the same nesting
// level.
type statement struct {
	tokens []token
	line   int
}

const whitespace = " \t\r\n\f"

// Rewrite tokenizes data and calls fn for every declaration with a
// non-empty value. The optional source parameter identifies what's being
// processed (for debug logging).
func (r *Rewriter) Rewrite(data []byte, fn DeclarationFunc, source ...string) (*Result, error) {
	res := &Result{}

	name := ""
	if len(source) > 0 {
		name = source[0]
	}
	if name != "" {
		r.log.Debug("Rewriting CSS", zap.String("source", name), zap.Int("bytes", len(data)))
	}

	var out bytes.Buffer
	out.Grow(len(data))

	lexer := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var (
		stmt   statement
		depth  int // braces
		parens int
		line   = 1
	)

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to tokenize stylesheet %q at line %d: %w", name, line, err)
			}
			break
		}

		tok := token{tt: tt, text: string(text)}

		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			parens++
		case css.RightParenthesisToken:
			if parens > 0 {
				parens--
			}
		}

		if parens == 0 {
			switch tt {
			case css.SemicolonToken:
				r.flush(&out, &stmt, depth > 0, fn, res)
				out.WriteString(tok.text)
				line += strings.Count(tok.text, "\n")
				continue
			case css.LeftBraceToken:
				writeTokens(&out, stmt.tokens)
				stmt = statement{}
				out.WriteString(tok.text)
				depth++
				continue
			case css.RightBraceToken:
				r.flush(&out, &stmt, depth > 0, fn, res)
				out.WriteString(tok.text)
				if depth > 0 {
					depth--
				} else {
					res.warn(fmt.Sprintf("unexpected '}' at line %d", line))
				}
				continue
			}
		}

		if len(stmt.tokens) == 0 {
			stmt.line = line
		}
		stmt.tokens = append(stmt.tokens, tok)
		line += strings.Count(tok.text, "\n")
	}

	// Unterminated last declaration is still a declaration.
	r.flush(&out, &stmt, depth > 0, fn, res)
	if depth > 0 {
		res.warn(fmt.Sprintf("%d block(s) not closed at the end of input", depth))
	}

	for _, w := range res.Warnings {
		r.log.Debug("CSS problem", zap.String("source", name), zap.String("warning", w))
	}

	res.CSS = out.Bytes()
	return res, nil
}

// flush writes accumulated statement to out, rewriting declaration value when
// statement is a declaration inside a block.
func (r *Rewriter) flush(out *bytes.Buffer, stmt *statement, inBlock bool, fn DeclarationFunc, res *Result) {
	defer func() { *stmt = statement{} }()

	if !inBlock || fn == nil {
		writeTokens(out, stmt.tokens)
		return
	}

	colon, ok := declarationColon(stmt.tokens)
	if !ok {
		writeTokens(out, stmt.tokens)
		return
	}

	var sb strings.Builder
	for _, t := range stmt.tokens[colon+1:] {
		sb.WriteString(t.text)
	}
	rest := sb.String()
	value := strings.Trim(rest, whitespace)
	if value == "" {
		writeTokens(out, stmt.tokens)
		return
	}
	lead := rest[:len(rest)-len(strings.TrimLeft(rest, whitespace))]
	trail := rest[len(strings.TrimRight(rest, whitespace)):]

	prop := firstSignificant(stmt.tokens, 0)
	line := stmt.line
	for _, t := range stmt.tokens[:prop] {
		line += strings.Count(t.text, "\n")
	}

	d := Declaration{
		Property: stmt.tokens[prop].text,
		Value:    value,
		Line:     line,
	}
	res.Declarations++

	replacement := fn(d)
	if replacement != value {
		res.Changed++
	}

	writeTokens(out, stmt.tokens[:colon+1])
	out.WriteString(lead)
	out.WriteString(replacement)
	out.WriteString(trail)
}

// declarationColon returns position of the colon when tokens look like
// "ident : ...".
func declarationColon(tokens []token) (int, bool) {
	i := firstSignificant(tokens, 0)
	if i < 0 || !isPropertyName(tokens[i]) {
		return 0, false
	}
	j := firstSignificant(tokens, i+1)
	if j < 0 || tokens[j].tt != css.ColonToken {
		return 0, false
	}
	return j, true
}

func isPropertyName(t token) bool {
	return t.tt == css.IdentToken || strings.HasPrefix(t.text, "--")
}

func firstSignificant(tokens []token, from int) int {
	for i := from; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		return i
	}
	return -1
}

func writeTokens(out *bytes.Buffer, tokens []token) {
	for _, t := range tokens {
		out.WriteString(t.text)
	}
}

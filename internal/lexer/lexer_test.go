package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func tok(typ TokenType, contents ...string) Token {
	return Token{Type: typ, Contents: strings.Join(contents, "")}
}

var (
	startOpen   = tok(TokenTagStartOpen)
	endOpen     = tok(TokenTagEndOpen)
	closeMany   = tok(TokenTagCloseMany)
	closeSingle = tok(TokenTagCloseSingle)
	equals      = tok(TokenEquals)
	linebreak   = tok(TokenLinebreak)
)

func ident(s string) Token { return tok(TokenIdentifier, s) }
func value(s string) Token { return tok(TokenValue, s) }

func lex(t *testing.T, input string) ([]Token, error) {
	t.Helper()

	tks, err := New(strings.NewReader(input), "test.svg").Collect()

	for i := range tks {
		tks[i].Start = Location{}
	}
	return tks, err
}

func TestLexer(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want:  []Token{},
		},
		{
			name:  "nested tags",
			input: "<a><b/><b/></a>",
			want: []Token{
				startOpen, ident("a"), closeMany,
				startOpen, ident("b"), closeSingle,
				startOpen, ident("b"), closeSingle,
				endOpen, ident("a"), closeMany,
			},
		},
		{
			name:  "attribute",
			input: `<a b="c"/>`,
			want:  []Token{startOpen, ident("a"), ident("b"), equals, value("c"), closeSingle},
		},
		{
			name:  "single quoted attributes",
			input: `<rect width='10' height = '20'>`,
			want: []Token{
				startOpen, ident("rect"),
				ident("width"), equals, value("10"),
				ident("height"), equals, value("20"),
				closeMany,
			},
		},
		{
			name:  "value keeps spaces and symbols",
			input: `<path d="M 0,0 L 10,10 z"/>`,
			want:  []Token{startOpen, ident("path"), ident("d"), equals, value("M 0,0 L 10,10 z"), closeSingle},
		},
		{
			name:  "empty value",
			input: `<a b=""/>`,
			want:  []Token{startOpen, ident("a"), ident("b"), equals, value(""), closeSingle},
		},
		{
			name:  "mismatched quotes close the value",
			input: `<a b="c'/>`,
			want:  []Token{startOpen, ident("a"), ident("b"), equals, value("c"), closeSingle},
		},
		{
			name:  "unquoted value is an identifier",
			input: "<a b=c/>",
			want:  []Token{startOpen, ident("a"), ident("b"), equals, ident("c"), closeSingle},
		},
		{
			name:  "comment",
			input: "<!-- hi -->",
			want:  []Token{tok(TokenComment, "hi")},
		},
		{
			name:  "empty comment",
			input: "<!--  -->",
			want:  []Token{tok(TokenComment, "")},
		},
		{
			name:  "comment with dashes",
			input: "<!-- a -- b -->",
			want:  []Token{tok(TokenComment, "a -- b")},
		},
		{
			name:  "comment spanning lines",
			input: "<!-- a\nb -->\n",
			want:  []Token{tok(TokenComment, "a\nb"), linebreak},
		},
		{
			name:  "comment keeps markup",
			input: `<!-- <g id="x"/> -->`,
			want:  []Token{tok(TokenComment, `<g id="x"/>`)},
		},
		{
			name:  "processing instruction",
			input: "<? pi content ?>",
			want:  []Token{tok(TokenProcessingInstruction, "pi content")},
		},
		{
			name:  "xml declaration",
			input: `<? xml version="1.0" encoding="UTF-8" ?>`,
			want:  []Token{tok(TokenProcessingInstruction, `xml version="1.0" encoding="UTF-8"`)},
		},
		{
			name:  "linebreaks",
			input: "<a>\n\n</a>\n",
			want: []Token{
				startOpen, ident("a"), closeMany, linebreak,
				linebreak,
				endOpen, ident("a"), closeMany, linebreak,
			},
		},
		{
			name:  "linebreak followed by carriage return",
			input: "<a>\n\r<b/>",
			want:  []Token{startOpen, ident("a"), closeMany, linebreak, startOpen, ident("b"), closeSingle},
		},
		{
			name:  "whitespace only lines",
			input: "<a>\n  \t \n   </a>",
			want:  []Token{startOpen, ident("a"), closeMany, linebreak, linebreak, endOpen, ident("a"), closeMany},
		},
		{
			name:  "identifier flushed by linebreak",
			input: "<svg\nwidth=\"1\"\n>",
			want:  []Token{startOpen, ident("svg"), linebreak, ident("width"), equals, value("1"), linebreak, closeMany},
		},
		{
			name:  "identifier flushed before tag",
			input: "a<b/>",
			want:  []Token{ident("a"), startOpen, ident("b"), closeSingle},
		},
		{
			name:  "trailing identifier",
			input: "abc",
			want:  []Token{ident("abc")},
		},
		{
			name:  "unicode and digits",
			input: "<grüße2 x1='ä'/>",
			want:  []Token{startOpen, ident("grüße2"), ident("x1"), equals, value("ä"), closeSingle},
		},
		{
			name: "document",
			input: `<? xml version="1.0" ?>
<svg width="48" height="48">
	<!-- Icon -->
	<g id="Icon"/>
</svg>
`,
			want: []Token{
				tok(TokenProcessingInstruction, `xml version="1.0"`), linebreak,
				startOpen, ident("svg"), ident("width"), equals, value("48"), ident("height"), equals, value("48"), closeMany, linebreak,
				tok(TokenComment, "Icon"), linebreak,
				startOpen, ident("g"), ident("id"), equals, value("Icon"), closeSingle, linebreak,
				endOpen, ident("svg"), closeMany, linebreak,
			},
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			tks, err := lex(t, c.input)
			require.NoError(t, err)
			require.Equal(t, c.want, tks)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		inner   error
		message string
		at      Location
	}{
		{
			name:    "not a comment",
			input:   "<a><!--oops",
			inner:   ErrExpectedComment,
			message: "expected comment after exclamation mark at test.svg:1:4",
			at:      Location{File: "test.svg", Column: 3},
		},
		{
			name:    "doctype",
			input:   "<!DOCTYPE svg>",
			inner:   ErrExpectedComment,
			message: "expected comment after exclamation mark at test.svg:1:1",
			at:      Location{File: "test.svg"},
		},
		{
			name:    "unknown symbol",
			input:   "<a>&amp;</a>",
			inner:   &UnknownSymbolError{Got: '&'},
			message: "unknown symbol '&' at test.svg:1:4",
			at:      Location{File: "test.svg", Column: 3},
		},
		{
			name:    "space after angle bracket",
			input:   "< a>",
			inner:   &UnknownSymbolError{Got: ' ', After: '<', Expected: "a tag name, '/', '!' or '?'"},
			message: `unknown symbol ' ' after '<', expected a tag name, '/', '!' or '?' at test.svg:1:2`,
			at:      Location{File: "test.svg", Column: 1},
		},
		{
			name:    "angle bracket at end of input",
			input:   "<a>\n<",
			inner:   &UnknownSymbolError{Got: EndOfInput, After: '<', Expected: "a tag name, '/', '!' or '?'"},
			message: `unknown symbol end of input after '<', expected a tag name, '/', '!' or '?' at test.svg:2:2`,
			at:      Location{File: "test.svg", Line: 1, Column: 1},
		},
		{
			name:    "slash without close",
			input:   "<a/ >",
			inner:   &UnknownSymbolError{Got: ' ', After: '/', Expected: "'>'"},
			message: `unknown symbol ' ' after '/', expected '>' at test.svg:1:4`,
			at:      Location{File: "test.svg", Column: 3},
		},
		{
			name:    "unterminated comment",
			input:   "<a>\n<!-- oops",
			inner:   &UnterminatedError{Construct: "comment"},
			message: "unterminated comment at test.svg:2:1",
			at:      Location{File: "test.svg", Line: 1},
		},
		{
			name:    "comment end without leading space",
			input:   "<!-- oops-->",
			inner:   &UnterminatedError{Construct: "comment"},
			message: "unterminated comment at test.svg:1:1",
			at:      Location{File: "test.svg"},
		},
		{
			name:    "unterminated processing instruction",
			input:   "<? xml ?",
			inner:   &UnterminatedError{Construct: "processing instruction"},
			message: "unterminated processing instruction at test.svg:1:1",
			at:      Location{File: "test.svg"},
		},
		{
			name:    "unterminated value",
			input:   `<a b="c/>`,
			inner:   &UnterminatedError{Construct: "quoted value"},
			message: "unterminated quoted value at test.svg:1:6",
			at:      Location{File: "test.svg", Column: 5},
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			tks, err := lex(t, c.input)
			require.Nil(t, tks)
			require.Error(t, err)

			var lexErr *LexerError
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, c.inner, lexErr.Inner)
			require.Equal(t, c.at, lexErr.At())
			require.EqualError(t, err, c.message)
		})
	}
}

func TestLexerReadErrors(t *testing.T) {
	t.Run("invalid encoding", func(t *testing.T) {
		_, err := lex(t, "<a b=\"\xff\"/>")
		require.ErrorIs(t, err, ErrInvalidEncoding)

		var lexErr *LexerError
		require.False(t, errors.As(err, &lexErr))
	})

	t.Run("reader failure", func(t *testing.T) {
		boom := errors.New("boom")

		_, err := New(iotest.ErrReader(boom), "test.svg").Collect()
		require.ErrorIs(t, err, boom)
	})
}

func TestLexerLocations(t *testing.T) {
	tks, err := NewFromBytes([]byte("<a>\n  <b c='d'/>"), "test.svg").Collect()
	require.NoError(t, err)

	at := func(line, col int) Location {
		return Location{File: "test.svg", Line: line, Column: col}
	}
	want := []Location{
		at(0, 0), at(0, 1), at(0, 2), at(0, 3),
		at(1, 2), at(1, 3), at(1, 5), at(1, 6), at(1, 7), at(1, 10),
	}

	got := make([]Location, len(tks))
	for i, tk := range tks {
		got[i] = tk.Start
	}
	require.Equal(t, want, got)
}

func TestLexerNext(t *testing.T) {
	l := New(strings.NewReader("<a/>"), "test.svg")

	for _, want := range []TokenType{TokenTagStartOpen, TokenIdentifier, TokenTagCloseSingle} {
		tk, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, want, tk.Type)
	}

	for i := 0; i < 2; i++ {
		_, err := l.Next()
		require.Equal(t, io.EOF, err)
	}
}

func TestLexerNextStopsAtError(t *testing.T) {
	l := New(strings.NewReader("<a>%<b/>"), "test.svg")

	var seen []TokenType
	var lastErr error
	for tk, err := range l.All() {
		if err != nil {
			lastErr = err
			break
		}
		seen = append(seen, tk.Type)
	}

	require.Equal(t, []TokenType{TokenTagStartOpen, TokenIdentifier, TokenTagCloseMany}, seen)
	require.Error(t, lastErr)

	_, err := l.Next()
	require.Equal(t, lastErr, err)
}

func TestLexerRoundTripsContents(t *testing.T) {
	cases := []struct {
		typ          TokenType
		open, closer string
	}{
		{TokenComment, "<!-- ", " -->"},
		{TokenProcessingInstruction, "<? ", " ?>"},
		{TokenValue, `"`, `"`},
	}

	input := `<? xml version="1.0" ?><!--  spaced out  --><a b="x y"/>`
	tks, err := lex(t, input)
	require.NoError(t, err)

	for _, tk := range tks {
		for _, c := range cases {
			if tk.Type != c.typ {
				continue
			}

			again, err := lex(t, c.open+tk.Contents+c.closer)
			require.NoError(t, err)
			require.Equal(t, []Token{tk}, again)
		}
	}
}

func TestTokenString(t *testing.T) {
	require.Equal(t, "</", endOpen.String())
	require.Equal(t, "/>", closeSingle.String())
	require.Equal(t, "Comment: hi", tok(TokenComment, "hi").String())
	require.Equal(t, "PI: xml", tok(TokenProcessingInstruction, "xml").String())
	require.Equal(t, "", linebreak.String())
	require.Equal(t, "Processing instruction", TokenProcessingInstruction.String())
}

func TestTokenTypeText(t *testing.T) {
	text, err := TokenTagCloseSingle.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "tag-close-single", string(text))

	var typ TokenType
	require.NoError(t, typ.UnmarshalText([]byte("processing-instruction")))
	require.Equal(t, TokenProcessingInstruction, typ)

	require.Error(t, typ.UnmarshalText([]byte("nope")))
}

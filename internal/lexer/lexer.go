package lexer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"unicode"

	"golang.org/x/exp/slices"
)

type LexerError struct {
	Inner    error
	Location Location
}

func (e *LexerError) Unwrap() error {
	return e.Inner
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *LexerError) At() Location {
	return e.Location
}

type UnknownSymbolError struct {
	Got rune
	// Symbol that introduced Got, 0 if none
	After    rune
	Expected string
}

func (e *UnknownSymbolError) Error() string {
	msg := "unknown symbol " + describeRune(e.Got)
	if e.After != 0 {
		msg += fmt.Sprintf(" after %q", e.After)
	}
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	return msg
}

type UnterminatedError struct {
	Construct string
}

func (e *UnterminatedError) Error() string {
	return "unterminated " + e.Construct
}

var ErrExpectedComment = errors.New("expected comment after exclamation mark")

type mode int

const (
	modeNormal mode = iota
	modeQuotedValue
	modeComment
	modeProcessingInstruction
)

func (m mode) String() string {
	switch m {
	case modeNormal:
		return "markup"
	case modeQuotedValue:
		return "quoted value"
	case modeComment:
		return "comment"
	case modeProcessingInstruction:
		return "processing instruction"
	}
	return "<unknown>"
}

var (
	quotes = []rune{'"', '\''}

	commentOpen = []rune("-- ")
	commentEnd  = []rune("-->")
	procInstEnd = []rune("?>")
)

// Lexer turns markup into tokens. Tokens are produced on demand by Next, a Lexer can only be
// consumed once.
type Lexer struct {
	filename string
	cursor   *Cursor

	mode mode

	str      []rune
	strStart Location

	// runes already classified through lookahead, dropped as they get committed
	skip int

	tokens []Token
	done   bool
	err    error
}

func New(r io.Reader, fileName string) *Lexer {
	return &Lexer{
		filename: fileName,
		cursor:   NewCursor(NewSource(r), fileName),
	}
}

func NewFromBytes(b []byte, fileName string) *Lexer {
	return New(bytes.NewReader(b), fileName)
}

// Next returns the next token, or io.EOF once the input has been fully tokenized. After an
// error has been returned every further call returns the same error.
func (l *Lexer) Next() (Token, error) {
	for len(l.tokens) == 0 {
		if l.err != nil {
			return Token{}, l.err
		}
		if l.done {
			return Token{}, io.EOF
		}

		l.step()
	}

	tk := l.tokens[0]
	l.tokens = l.tokens[1:]

	return tk, nil
}

// All iterates over the remaining tokens. Iteration stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tk, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tk, err) || err != nil {
				return
			}
		}
	}
}

// Collect tokenizes the whole input. Either all tokens or only an error are returned.
func (l *Lexer) Collect() ([]Token, error) {
	tks := []Token{}

	for tk, err := range l.All() {
		if err != nil {
			return nil, err
		}
		tks = append(tks, tk)
	}

	return tks, nil
}

func (l *Lexer) step() {
	pos := l.cursor.Pos()

	r := l.cursor.Next()
	if r == EndOfInput {
		l.finish()
		return
	}

	if l.skip > 0 {
		l.skip--
		return
	}

	switch l.mode {
	case modeQuotedValue:
		l.lexQuotedValue(r)
	case modeComment:
		l.lexComment(r)
	case modeProcessingInstruction:
		l.lexProcessingInstruction(r)
	default:
		l.lexNormal(r, pos)
	}
}

func (l *Lexer) finish() {
	if err := l.cursor.Err(); err != nil {
		l.err = fmt.Errorf("read input: %w", err)
		return
	}

	if l.mode != modeNormal {
		l.lexError(&UnterminatedError{Construct: l.mode.String()}, l.strStart)
		return
	}

	l.flush()
	l.done = true
}

func (l *Lexer) lexNormal(r rune, pos Location) {
	switch {
	case r == '<':
		l.flush()
		l.lexAngleOpen(pos)

	case r == '/':
		if next := l.cursor.Peek(); next != '>' {
			l.lexError(&UnknownSymbolError{Got: next, After: '/', Expected: "'>'"}, l.cursor.Pos())
			return
		}

		l.flush()
		l.emit(TokenTagCloseSingle, pos, "")
		l.skip = 1

	case r == '>':
		l.flush()
		l.emit(TokenTagCloseMany, pos, "")

	case r == '\n':
		if l.cursor.Peek() == '\r' {
			l.skip = 1
		}

		l.flush()
		l.emit(TokenLinebreak, pos, "")

	case r == '=':
		l.flush()
		l.emit(TokenEquals, pos, "")

	case isQuote(r):
		l.flush()
		l.enter(modeQuotedValue, pos)

	case isAlphanumeric(r):
		if len(l.str) == 0 {
			l.strStart = pos
		}
		l.str = append(l.str, r)

	case unicode.IsSpace(r):
		l.flush()

	default:
		l.lexError(&UnknownSymbolError{Got: r}, pos)
	}
}

func (l *Lexer) lexAngleOpen(pos Location) {
	switch next := l.cursor.Peek(); {
	case next == '/':
		l.emit(TokenTagEndOpen, pos, "")
		l.skip = 1

	case next == '!':
		if !slices.Equal(l.lookahead(1, len(commentOpen)), commentOpen) {
			l.lexError(ErrExpectedComment, pos)
			return
		}

		l.enter(modeComment, pos)
		l.skip = 1 + len(commentOpen)

	case next == '?':
		// Skips the question mark and the separator after it
		l.enter(modeProcessingInstruction, pos)
		l.skip = 2

	case isAlphanumeric(next):
		l.emit(TokenTagStartOpen, pos, "")

	default:
		l.lexError(&UnknownSymbolError{
			Got:      next,
			After:    '<',
			Expected: "a tag name, '/', '!' or '?'",
		}, l.cursor.Pos())
	}
}

func (l *Lexer) lexQuotedValue(r rune) {
	if isQuote(r) {
		l.emitBuffer(TokenValue)
		l.mode = modeNormal
		return
	}

	l.str = append(l.str, r)
}

func (l *Lexer) lexComment(r rune) {
	if r == ' ' && slices.Equal(l.lookahead(0, len(commentEnd)), commentEnd) {
		l.emitBuffer(TokenComment)
		l.mode = modeNormal
		l.skip = len(commentEnd)
		return
	}

	l.str = append(l.str, r)
}

func (l *Lexer) lexProcessingInstruction(r rune) {
	if r == ' ' && slices.Equal(l.lookahead(0, len(procInstEnd)), procInstEnd) {
		l.emitBuffer(TokenProcessingInstruction)
		l.mode = modeNormal
		l.skip = len(procInstEnd)
		return
	}

	l.str = append(l.str, r)
}

// lookahead peeks n runes starting from, runes past the committed position, then rolls the
// cursor back.
func (l *Lexer) lookahead(from, n int) []rune {
	defer l.cursor.Reset()

	for i := 0; i < from; i++ {
		l.cursor.Advance()
	}

	rs := make([]rune, n)
	for i := range rs {
		rs[i] = l.cursor.Peek()
		l.cursor.Advance()
	}

	return rs
}

func (l *Lexer) enter(m mode, pos Location) {
	l.mode = m
	l.strStart = pos
}

func (l *Lexer) emit(typ TokenType, at Location, contents string) {
	l.tokens = append(l.tokens, Token{
		Type:     typ,
		Start:    at,
		Contents: contents,
	})
}

func (l *Lexer) emitBuffer(typ TokenType) {
	l.emit(typ, l.strStart, string(l.str))
	l.str = l.str[:0]
}

// flush turns pending identifier characters into a token.
func (l *Lexer) flush() {
	if len(l.str) != 0 {
		l.emitBuffer(TokenIdentifier)
	}
}

func (l *Lexer) lexError(err error, at Location) {
	l.err = &LexerError{
		Inner:    err,
		Location: at,
	}
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isQuote(r rune) bool {
	return slices.Contains(quotes, r)
}

func describeRune(r rune) string {
	if r == EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%q", r)
}

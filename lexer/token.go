// Package lexer exposes the markup tokenizer to code outside this module.
package lexer

import (
	"io"

	"github.com/pipe01/svgtok/internal/lexer"
)

type (
	Token     = lexer.Token
	TokenType = lexer.TokenType
	Location  = lexer.Location
	Lexer     = lexer.Lexer

	LexerError         = lexer.LexerError
	UnknownSymbolError = lexer.UnknownSymbolError
	UnterminatedError  = lexer.UnterminatedError
)

const (
	TokenTagStartOpen          = lexer.TokenTagStartOpen
	TokenTagEndOpen            = lexer.TokenTagEndOpen
	TokenTagCloseMany          = lexer.TokenTagCloseMany
	TokenTagCloseSingle        = lexer.TokenTagCloseSingle
	TokenComment               = lexer.TokenComment
	TokenProcessingInstruction = lexer.TokenProcessingInstruction
	TokenIdentifier            = lexer.TokenIdentifier
	TokenValue                 = lexer.TokenValue
	TokenEquals                = lexer.TokenEquals
	TokenLinebreak             = lexer.TokenLinebreak
)

var (
	ErrExpectedComment = lexer.ErrExpectedComment
	ErrInvalidEncoding = lexer.ErrInvalidEncoding
)

// New returns a lexer reading markup from r. fileName is only used in token locations.
func New(r io.Reader, fileName string) *Lexer {
	return lexer.New(r, fileName)
}

// Tokenize lexes all of r, returning either every token or the first error.
func Tokenize(r io.Reader, fileName string) ([]Token, error) {
	return lexer.New(r, fileName).Collect()
}

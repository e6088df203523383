package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// <
	TokenTagStartOpen TokenType = iota
	// </
	TokenTagEndOpen
	// >
	TokenTagCloseMany
	// />
	TokenTagCloseSingle

	// <!-- COMMENT -->
	TokenComment
	// <? PROCESSING_INSTRUCTION ?>
	TokenProcessingInstruction

	TokenIdentifier
	TokenValue
	TokenEquals

	// "\n", or "\n\r"
	TokenLinebreak
)

var tokenNames = [...]string{
	TokenTagStartOpen:          "Tag start open",
	TokenTagEndOpen:            "Tag end open",
	TokenTagCloseMany:          "Tag close",
	TokenTagCloseSingle:        "Tag close single",
	TokenComment:               "Comment",
	TokenProcessingInstruction: "Processing instruction",
	TokenIdentifier:            "Identifier",
	TokenValue:                 "Value",
	TokenEquals:                "Equals",
	TokenLinebreak:             "Linebreak",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return "<unknown>"
	}
	return tokenNames[t]
}

// MarshalText renders the type as a lower-case, dash separated name, e.g. "tag-start-open".
func (t TokenType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tokenNames) {
		return nil, fmt.Errorf("unknown token type %d", int(t))
	}
	return []byte(strings.ReplaceAll(strings.ToLower(tokenNames[t]), " ", "-")), nil
}

func (t *TokenType) UnmarshalText(b []byte) error {
	for i := range tokenNames {
		if text, _ := TokenType(i).MarshalText(); string(text) == string(b) {
			*t = TokenType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown token type %q", b)
}

// HasContents reports whether tokens of this type carry text.
func (t TokenType) HasContents() bool {
	switch t {
	case TokenComment, TokenProcessingInstruction, TokenIdentifier, TokenValue:
		return true
	}
	return false
}

type Token struct {
	Type     TokenType `json:"type" msgpack:"type"`
	Start    Location  `json:"start" msgpack:"start"`
	Contents string    `json:"contents,omitempty" msgpack:"contents,omitempty"`
}

func (t Token) String() string {
	switch t.Type {
	case TokenTagStartOpen:
		return "<"
	case TokenTagEndOpen:
		return "</"
	case TokenTagCloseMany:
		return ">"
	case TokenTagCloseSingle:
		return "/>"
	case TokenComment:
		return "Comment: " + t.Contents
	case TokenProcessingInstruction:
		return "PI: " + t.Contents
	case TokenIdentifier:
		return "Identifier: " + t.Contents
	case TokenValue:
		return "Value: " + t.Contents
	case TokenEquals:
		return "="
	case TokenLinebreak:
		return ""
	}

	return "<unknown>"
}

type Location struct {
	File string `json:"file,omitempty" msgpack:"file,omitempty"`

	// 0-based
	Line   int `json:"line" msgpack:"line"`
	Column int `json:"column" msgpack:"column"`
}

func (l *Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line+1, l.Column+1)
}

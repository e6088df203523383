package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tks, err := Tokenize(strings.NewReader(`<use href="#a"/>`), "icon.svg")
	require.NoError(t, err)
	require.Len(t, tks, 6)
	require.Equal(t, TokenValue, tks[4].Type)
	require.Equal(t, "#a", tks[4].Contents)
	require.Equal(t, Location{File: "icon.svg", Column: 10}, tks[4].Start)
}

func TestTokenizeError(t *testing.T) {
	tks, err := Tokenize(strings.NewReader("<a><!DOCTYPE>"), "icon.svg")
	require.Nil(t, tks)
	require.ErrorIs(t, err, ErrExpectedComment)
}

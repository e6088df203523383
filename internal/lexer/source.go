package lexer

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// EndOfInput is returned in place of a rune when there is nothing left to read.
const EndOfInput rune = -1

var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// Source yields the runes of a reader one at a time, reading one line at a time.
type Source struct {
	r *bufio.Reader

	line  []rune
	index int

	err error
}

func NewSource(r io.Reader) *Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Source{r: br}
}

// Next returns the next rune, or EndOfInput once the reader is drained or has failed.
func (s *Source) Next() rune {
	if s.index == len(s.line) {
		if !s.readLine() {
			return EndOfInput
		}
	}

	r := s.line[s.index]
	s.index++
	return r
}

// Err returns the read error that ended the source, if any.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) readLine() bool {
	if s.err != nil {
		return false
	}

	str, err := s.r.ReadString('\n')
	if err != nil && err != io.EOF {
		s.err = err
		return false
	}
	if len(str) == 0 {
		return false
	}
	if !utf8.ValidString(str) {
		s.err = ErrInvalidEncoding
		return false
	}

	s.line = append(s.line[:0], []rune(str)...)
	s.index = 0
	return true
}

// Package format writes token streams for people and for other programs.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pipe01/svgtok/internal/lexer"
	"github.com/vmihailenco/msgpack/v5"
)

type Format string

const (
	Pretty  Format = "pretty"
	JSON    Format = "json"
	Msgpack Format = "msgpack"
)

var Formats = []string{string(Pretty), string(JSON), string(Msgpack)}

type FileTokens struct {
	File   string        `json:"file" msgpack:"file"`
	Tokens []lexer.Token `json:"tokens" msgpack:"tokens"`
}

var (
	locationColor = color.New(color.FgHiBlack)
	typeColor     = color.New(color.FgCyan)
	contentsColor = color.New(color.FgGreen)
)

func Write(w io.Writer, f Format, files []FileTokens) error {
	switch f {
	case Pretty:
		return FormatTokensPretty(w, files)
	case JSON:
		return FormatTokensJSON(w, files)
	case Msgpack:
		return FormatTokensMsgpack(w, files)
	}

	return fmt.Errorf("unknown format %q", f)
}

// FormatTokensPretty prints one token per line, prefixed by its location.
func FormatTokensPretty(w io.Writer, files []FileTokens) error {
	for _, f := range files {
		for _, tk := range f.Tokens {
			_, err := fmt.Fprintf(w, "%s  %s", locationColor.Sprint(tk.Start.String()), typeColor.Sprintf("%-22s", tk.Type))
			if err != nil {
				return err
			}

			if tk.Type.HasContents() {
				if _, err := fmt.Fprintf(w, " %s", contentsColor.Sprintf("%q", tk.Contents)); err != nil {
					return err
				}
			}

			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}

	return nil
}

func FormatTokensJSON(w io.Writer, files []FileTokens) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(files)
}

func FormatTokensMsgpack(w io.Writer, files []FileTokens) error {
	return msgpack.NewEncoder(w).Encode(files)
}

package document

import (
	"fmt"
	"io"
	"strings"
)

// outputWriter keeps track of the indentation level and the first write error, so node printers
// don't have to check every write.
type outputWriter struct {
	w           io.Writer
	indentation int

	written int64
	err     error
}

func (w *outputWriter) indent(delta int) {
	w.indentation += delta
}

func (w *outputWriter) writeIndentation() {
	w.writeString(strings.Repeat("\t", w.indentation))
}

func (w *outputWriter) writeString(str string) {
	if w.err != nil {
		return
	}

	n, err := io.WriteString(w.w, str)
	w.written += int64(n)
	w.err = err
}

func (w *outputWriter) writef(format string, a ...any) {
	w.writeString(fmt.Sprintf(format, a...))
}

func (w *outputWriter) writeLine(str string) {
	w.writeIndentation()
	w.writeString(str)
	w.writeString("\n")
}

func (w *outputWriter) writeLinef(format string, a ...any) {
	w.writeLine(fmt.Sprintf(format, a...))
}

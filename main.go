package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/pipe01/svgtok/errors"
	"github.com/pipe01/svgtok/internal/format"
	"github.com/pipe01/svgtok/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	outFormat = kingpin.Flag("format", "Output format").Short('f').Default(string(format.Pretty)).Enum(format.Formats...)
	outPath   = kingpin.Flag("out", `File to write the tokens to, "-" for stdout`).Short('o').Default("-").String()
	watch     = kingpin.Flag("watch", "Watch files for changes and tokenize them again").Short('w').Bool()
	colorMode = kingpin.Flag("color", "Colorize pretty output").Default("auto").Enum("auto", "always", "never")
	verbose   = kingpin.Flag("verbose", "Log more, can be repeated").Short('v').Counter()
	files     = kingpin.Arg("files", "List of files to tokenize").Required().ExistingFiles()
)

var log = commonlog.GetLogger("svgtok")

func main() {
	kingpin.Parse()

	commonlog.Configure(1+*verbose, nil)
	configureColor()

	wd, _ := os.Getwd()
	ws := workspace.New(wd)

	if *watch {
		err := watchFiles(ws)
		if err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
	} else {
		err := tokenizeAll(ws)
		if err != nil {
			kingpin.Fatalf("failed to tokenize files: %s", describeError(err))
		}
	}
}

func configureColor() {
	switch *colorMode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		if *outPath != "-" {
			color.NoColor = true
		}
	}
}

func tokenizeAll(ws *workspace.Workspace) error {
	out := make([]format.FileTokens, 0, len(*files))

	for _, fname := range *files {
		tks, err := ws.Load(fname)
		if err != nil {
			return fmt.Errorf("load file %q: %w", fname, err)
		}

		log.Debugf("tokenized %q into %d tokens", fname, len(tks))
		out = append(out, format.FileTokens{File: fname, Tokens: tks})
	}

	return writeOutput(out)
}

func tokenizeFile(ws *workspace.Workspace, fname string) error {
	ws.Forget(fname)

	tks, err := ws.Load(fname)
	if err != nil {
		return fmt.Errorf("load file %q: %w", fname, err)
	}

	return writeOutput([]format.FileTokens{{File: fname, Tokens: tks}})
}

func writeOutput(files []format.FileTokens) error {
	if *outPath == "-" {
		return format.Write(os.Stdout, format.Format(*outFormat), files)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	err = format.Write(f, format.Format(*outFormat), files)
	if err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}

	return f.Close()
}

// describeError puts the location of lexing errors first, the way compilers do.
func describeError(err error) string {
	if serr, ok := errors.Situate(err); ok {
		at := serr.At()
		return fmt.Sprintf("%s: %s", &at, serr.Unwrap())
	}
	return err.Error()
}

func watchFiles(ws *workspace.Workspace) error {
	for _, fname := range *files {
		if err := tokenizeFile(ws, fname); err != nil {
			log.Error(describeError(err))
		}
	}

	watcher, err := NewWatcher(func(fullPath string) {
		log.Infof("file %q modified, tokenizing...", fullPath)

		if err := tokenizeFile(ws, fullPath); err != nil {
			log.Error(describeError(err))
		}
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range *files {
		err = watcher.WatchFile(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Notice("watching files for changes...")

	<-ch
	return nil
}

// Package main is the cobra64 command-line compiler: it concatenates
// one or more Cobra64 source files, runs them through the lexer,
// parser, analyzer and code generator, and writes the result as a PRG
// or D64 image depending on the output file's extension.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkloubert/cobra64/internal/analyzer"
	"github.com/mkloubert/cobra64/internal/cli"
	"github.com/mkloubert/cobra64/internal/codegen"
	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/lexer"
	"github.com/mkloubert/cobra64/internal/output"
	"github.com/mkloubert/cobra64/internal/parser"
	"github.com/mkloubert/cobra64/internal/vice"
	"github.com/mkloubert/cobra64/internal/watch"
)

// Exit codes, fixed by the external interface: 1 is a compile
// failure, 2 an unrecognized output extension, 3 a missing or
// unreadable source file.
const (
	exitCompileFailed    = 1
	exitBadOutputExt     = 2
	exitSourceUnreadable = 3
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		outPath     = flag.String("o", "", "output file (.prg or .d64)")
		outPathLong = flag.String("output", "", "output file (.prg or .d64), same as -o")
		verbose     = flag.Bool("v", false, "enable verbose logging")
		verboseLong = flag.Bool("verbose", false, "same as -v")
		watchFlag   = flag.Bool("watch", false, "recompile on every source file change")
		runFlag     = flag.Bool("run", false, "launch the result in VICE after a successful build")
		vicePath    = flag.String("vice-path", "", "path to the x64sc binary (defaults to $PATH)")
	)
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("cobra64", false)
		return
	}

	out := firstNonEmpty(*outPath, *outPathLong)
	logger := cli.NewLogger(*verbose || *verboseLong, false)

	sources := flag.Args()
	if len(sources) == 0 || out == "" {
		cli.PrintCommandUsage("cobra64", cli.CommandInfo{
			Name:        "cobra64",
			Description: "compile Cobra64 source to a C64 program image",
			Usage:       "cobra64 [-o OUTFILE] [-v] [-watch] [-run] [-vice-path PATH] SOURCE [SOURCE ...]",
			Examples: []string{
				"cobra64 -o game.prg main.cb64",
				"cobra64 -o disk.d64 -watch -run main.cb64",
			},
		})
		os.Exit(exitBadOutputExt)
	}

	build := func() int {
		return compile(sources, out, logger)
	}

	if !*watchFlag {
		code := build()
		if code == 0 && *runFlag {
			launch(out, *vicePath, logger)
		}
		os.Exit(code)
	}

	w, err := watch.New(sources, func() {
		if code := build(); code == 0 {
			logger.Info("build succeeded: %s", out)
			if *runFlag {
				launch(out, *vicePath, logger)
			}
		} else {
			logger.Warn("build failed (exit %d)", code)
		}
	})
	if err != nil {
		cli.ExitWithError("starting watcher: %v", err)
	}
	w.Run()
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// compile runs the full pipeline over sources and writes out, returning
// the process exit code the caller should use (0 on success).
func compile(sources []string, out string, logger *cli.Logger) int {
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".prg" && ext != ".d64" {
		fmt.Fprintf(os.Stderr, "error: unrecognized output extension %q (want .prg or .d64)\n", ext)
		return exitBadOutputExt
	}

	var parts []string
	for _, path := range sources {
		b, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot read %q: %v\n", path, err)
			return exitSourceUnreadable
		}
		parts = append(parts, string(b))
	}
	source := strings.Join(parts, "\n")
	label := sources[0]
	if len(sources) > 1 {
		label = sources[0] + " (+" + fmt.Sprint(len(sources)-1) + " more)"
	}

	logger.Debug("tokenizing %s", label)
	toks, cerr := lexer.Tokenize(source, label)
	if cerr != nil {
		fmt.Fprint(os.Stderr, compilerr.FormatError(cerr, source, label))
		return exitCompileFailed
	}

	logger.Debug("parsing %s", label)
	prog, cerr := parser.Parse(toks)
	if cerr != nil {
		fmt.Fprint(os.Stderr, compilerr.FormatError(cerr, source, label))
		return exitCompileFailed
	}

	logger.Debug("analyzing %s", label)
	info, diags := analyzer.Analyze(prog)
	var firstErr *compilerr.CompileError
	for _, d := range diags {
		if d.IsWarning {
			fmt.Fprint(os.Stderr, compilerr.FormatWarning(d, source, label))
			continue
		}
		if firstErr == nil {
			firstErr = d
		}
	}
	if firstErr != nil {
		fmt.Fprint(os.Stderr, compilerr.FormatError(firstErr, source, label))
		return exitCompileFailed
	}

	logger.Debug("generating code for %s", label)
	image, cerr := codegen.Generate(prog, info)
	if cerr != nil {
		fmt.Fprint(os.Stderr, compilerr.FormatError(cerr, source, label))
		return exitCompileFailed
	}

	var writeErr error
	switch ext {
	case ".prg":
		writeErr = output.WritePRG(out, image)
	case ".d64":
		name := strings.ToUpper(strings.TrimSuffix(filepath.Base(out), ext))
		writeErr = output.WriteD64(out, image, "COBRA64", name)
	}
	if writeErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", writeErr)
		return exitCompileFailed
	}

	logger.Info("wrote %s", out)
	return 0
}

// launch starts (or reloads) VICE against a freshly built program;
// failures here never change the compiler's own exit status.
func launch(prgOrD64 string, vicePath string, logger *cli.Logger) {
	bin, err := vice.Discover(vicePath)
	if err != nil {
		logger.Warn("could not find VICE: %v", err)
		return
	}
	if _, err := vice.CheckVersion(bin); err != nil {
		logger.Warn("VICE version check failed: %v", err)
	}
	if err := vice.Run(context.Background(), bin, prgOrD64); err != nil {
		logger.Warn("running VICE: %v", err)
	}
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"ipscraper/internal/analyzer"
	"ipscraper/internal/config"
	"ipscraper/internal/source"
	"ipscraper/internal/tui"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.Load(filepath.Base(os.Args[0]), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	interactive := !cfg.NoTUI && term.IsTerminal(int(os.Stdout.Fd()))

	if cfg.Path == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		cfg.Path = promptPath(os.Stdin, os.Stdout)
	}

	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}
	defer closeLog()

	fs := afero.NewOsFs()
	files, err := source.Resolve(fs, cfg.Path, cfg.Recursive)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeLog()
		os.Exit(1)
	}
	fmt.Printf("Found %d files in directory\n", len(files))
	fmt.Printf("Using %d workers (%d processors)\n\n", cfg.Concurrent, runtime.NumCPU())

	root, _ := filepath.Abs(cfg.Path)
	run := analyzer.NewRun(fs, analyzer.Options{
		Concurrent: cfg.Concurrent,
		Output:     cfg.Output,
		Root:       root,
	}, logger)
	done := run.Start(files)

	var sum analyzer.Summary
	if interactive {
		sum, err = tui.Run(run.Store(), done, tui.Config{
			Root:       root,
			Output:     cfg.Output,
			Concurrent: cfg.Concurrent,
			Refresh:    cfg.Refresh,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "TUI 실행 실패:", err)
		}
	} else {
		sum = tui.NewTextRenderer(os.Stdout, run.Store(), cfg.Refresh).Run(done)
	}

	if sum.Err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "\nSaving unique IPs failed:", sum.Err)
		closeLog()
		os.Exit(1)
	}
	fmt.Printf("\nFile saved to %s\n", sum.Output)
	fmt.Printf("Processing completed in %s\n", tui.FormatElapsed(sum.Elapsed))
	fmt.Printf("Total unique IP addresses found: %d\n", sum.Unique)
	if sum.Failed > 0 {
		color.New(color.FgYellow).Printf("%d of %d files could not be read\n", sum.Failed, sum.Files)
	}
}

// promptPath asks for the root folder the way the scan tool always has,
// stripping quotes left by drag-and-drop.
func promptPath(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter root folder path: ")
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.Trim(strings.TrimSpace(line), `"'`)
}

// newLogger writes to cfg.LogFile when set. Otherwise logs go to stderr,
// except under the live display where they would break the table.
func newLogger(cfg config.Config, interactive bool) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.SetLevel(level)

	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		closeFn = func() { f.Close() }
	case interactive:
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(os.Stderr)
	}
	return logger, closeFn, nil
}

package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common        commonFlags
	idiom         string
	output        string
	workers       int
	timeout       string
	pdf           bool
	paper         string
	highlight     bool
	commentPolicy string
	assetPath     string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common   commonFlags
	addr     string
	upstream string
	timeout  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stages, notices and timing")
}

// newFlagSet builds a FlagSet that reports errors to the caller instead of
// exiting, and prints usage to w on --help.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlagSet parses args and tags parse failures with ErrUsage.
// flag.ErrHelp is returned as is; pflag has already printed usage.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	// Input/output
	fs.StringVarP(&f.idiom, "idiom", "i", "", "idiom JSON file, http(s) URL or numeric id")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "idiom fetch timeout (e.g., 5s, 1m)")

	// Rendering
	fs.BoolVar(&f.highlight, "highlight", false, "syntax-highlight implementation code")
	fs.StringVar(&f.commentPolicy, "comment-policy", "", "author comments: trusted, sanitized")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	// PDF
	fs.BoolVar(&f.pdf, "pdf", false, "print pages to PDF instead of HTML")
	fs.StringVarP(&f.paper, "paper", "p", "", "PDF paper size: letter, a4")

	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.StringVarP(&f.upstream, "upstream", "u", "", "server rendering idiom pages")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "idiom fetch timeout (e.g., 5s, 1m)")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, w io.Writer) (*commonFlags, error) {
	f := &commonFlags{}
	fs := newFlagSet("config", w, printConfigUsage)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

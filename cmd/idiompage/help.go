package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: idiompage <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Augment idiom pages with implementations and edit links")
	fmt.Fprintln(w, "  serve      Serve augmented pages from an upstream site")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'idiompage help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: idiompage render <page.html|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Augment server-rendered idiom pages. In a directory, each X.html is")
	fmt.Fprintln(w, "paired with a sibling X.json; pages without one only get the header.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --idiom <ref>         Idiom JSON file, http(s) URL or numeric id")
	fmt.Fprintln(w, "                            (single page only; default: sibling X.json)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "                            (default: X.rendered.html next to the page)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Idiom fetch timeout (e.g., 5s, 1m)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --highlight           Syntax-highlight implementation code")
	fmt.Fprintln(w, "      --comment-policy <s>  Author comments: trusted, sanitized")
	fmt.Fprintln(w, "      --asset-path <dir>    Override templates/ and styles/ assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Print pages to X.pdf with headless Chrome")
	fmt.Fprintln(w, "  -p, --paper <s>           Paper size: letter, a4")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stages, notices and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  idiompage render idiom19.html --idiom idiom19.json")
	fmt.Fprintln(w, "  idiompage render idiom19.html --idiom 19")
	fmt.Fprintln(w, "  idiompage render ./pages -o ./out --pdf -w 4")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: idiompage serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Proxy idiom pages from an upstream site and augment them on the fly.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  GET /idiom/{id}           Augmented idiom page")
	fmt.Fprintln(w, "  GET /idiom/{id}/*         Same, with the upstream slug")
	fmt.Fprintln(w, "  GET /healthz              Liveness probe")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -u, --upstream <url>      Server rendering idiom pages and /api/idiom/{id}")
	fmt.Fprintln(w, "  -t, --timeout <d>         Idiom fetch timeout (e.g., 5s, 1m)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log at debug level")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: idiompage config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after defaults and environment overrides.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  IDIOMPAGE_CONFIG          Config file name or path")
	fmt.Fprintln(w, "  IDIOMPAGE_TIMEOUT         Idiom fetch timeout")
	fmt.Fprintln(w, "  IDIOMPAGE_UPSTREAM        Upstream site for serve and numeric --idiom")
	fmt.Fprintln(w, "  IDIOMPAGE_LOG_LEVEL       debug, info, warn, error")
	fmt.Fprintln(w, "  IDIOMPAGE_WORKERS         Parallel workers for render")
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: idiompage version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: idiompage help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

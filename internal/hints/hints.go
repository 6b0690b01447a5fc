// Package hints builds the short "what to try next" lines appended to CLI
// error messages. Every hint renders as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-idiompage/internal/fileutil"
)

// IsInContainer reports whether we run inside Docker. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests the rod environment variables that usually fix
// a failed Chrome launch.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout suggests raising the fetch timeout.
func ForTimeout() string {
	return format("slow backend? raise --timeout or IDIOMPAGE_TIMEOUT")
}

// ForFetch explains how idiom data is located for a failed fetch.
func ForFetch(ref string) string {
	if fileutil.IsURL(ref) {
		return format("check the idiom API is reachable: " + ref)
	}
	return format("pass --idiom with a JSON file or an http(s) URL")
}

// ForConfigNotFound suggests --config, or the first user-level config path
// that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-idiompage") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when output files cannot be written.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type usagePrinter struct {
	heading lipgloss.Style
	code    lipgloss.Style
	styled  bool
}

func newUsagePrinter(out io.Writer) *usagePrinter {
	p := &usagePrinter{}

	if f, ok := out.(*os.File); ok {
		p.styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !p.styled {
		return p
	}

	p.heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")) // blue
	p.code = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))                // green
	return p
}

func (p *usagePrinter) h(s string) string {
	if !p.styled {
		return "## " + s
	}
	return p.heading.Render(s)
}

func (p *usagePrinter) c(s string) string {
	if !p.styled {
		return s
	}
	return p.code.Render(s)
}

func printUsage(out io.Writer) {
	p := newUsagePrinter(out)

	var b strings.Builder
	b.WriteString("expandcp resolves a space separated list of gradle-style resource locators into a\n")
	b.WriteString("classpath suitable for use with 'java -cp' or 'kotlin -cp'. expandcp uses maven to resolve dependencies.\n\n")

	b.WriteString(p.h("Usage") + "\n\n")
	b.WriteString("  " + p.c("expandcp [flags] group:artifact:version[:classifier] ...") + "\n\n")

	b.WriteString(p.h("Example") + "\n\n")
	b.WriteString("  " + p.c("expandcp org.apache.commons:commons-csv:1.3 log4j:log4j:1.2.14") + "\n\n")

	b.WriteString(p.h("Features") + "\n\n")
	b.WriteString("* Support for transitive Maven dependencies\n")
	b.WriteString("* Caching of dependency requests. Use " + p.c("expandcp --clear-cache") + " to clear this cache\n")
	b.WriteString("  in case the dependency tree has changed\n\n")

	b.WriteString(p.h("Flags") + "\n\n")
	for _, f := range [][2]string{
		{"--clear-cache", "delete the dependency lookup cache"},
		{"-c, --config FILE", "config file (.toml, .yaml, .yml, .json) [$EXPANDCP_CONFIG]"},
		{"--cache-file FILE", "cache file path [$EXPANDCP_CACHE_FILE]"},
		{"--mvn PATH", "maven executable [$EXPANDCP_MVN]"},
		{"--verbose", "log cache decisions and maven output [$EXPANDCP_VERBOSE]"},
		{"-v, --version", "print the version"},
		{"-h, --help", "show this help"},
	} {
		fmt.Fprintf(&b, "  %-20s %s\n", f[0], f[1])
	}

	fmt.Fprint(out, b.String())
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/davrell/incsearch"
)

var (
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var (
	flagIgnoreCase bool
	flagLiteral    bool
	flagCount      bool
	flagNoColor    bool
)

func main() {
	root := &cobra.Command{
		Use:   "incgrep [flags] PATTERN FILE...",
		Short: "Search files with the incsearch engine",
		Long: "incgrep scans files for a regular expression (or literal text with -F)\n" +
			"and prints matching lines with the match highlighted.",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "fold case when matching")
	root.Flags().BoolVarP(&flagLiteral, "fixed-strings", "F", false, "treat the pattern as literal text")
	root.Flags().BoolVarP(&flagCount, "count", "c", false, "print only the match count per file")
	root.Flags().BoolVar(&flagNoColor, "no-color", false, "disable highlighting")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "incgrep: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	pattern, files := args[0], args[1:]

	if flagNoColor {
		plain := lipgloss.NewStyle()
		fileStyle, lineNumStyle, matchStyle = plain, plain, plain
	}

	total := 0
	for _, name := range files {
		n, err := grepFile(name, pattern, len(files) > 1)
		if err != nil {
			return err
		}
		total += n
	}
	if total == 0 {
		os.Exit(1)
	}
	return nil
}

func grepFile(name, pattern string, showName bool) (int, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return 0, err
	}

	doc := incsearch.NewTextDocument(string(data))
	defer incsearch.ReleaseDocument(doc)
	lines := strings.Split(doc.GetValue(), "\n")

	opts := incsearch.ScanOptions{
		Document:   doc,
		IgnoreCase: flagIgnoreCase,
	}
	if flagLiteral {
		opts.SearchText = pattern
	} else {
		opts.SearchPattern = pattern
	}

	count := 0
	lastLine := -1
	opts.OnMatch = func(from, to incsearch.Position, groups []string) bool {
		count++
		if flagCount {
			return true
		}
		// One printed line per document line, however many matches it
		// holds; the first match on the line decides the highlight.
		if from.Line == lastLine {
			return true
		}
		lastLine = from.Line
		printMatchLine(name, showName, from, to, lines)
		return true
	}

	if err := incsearch.ScanDocumentForMatches(opts); err != nil {
		return 0, err
	}

	if flagCount {
		if showName {
			fmt.Printf("%s:%d\n", fileStyle.Render(name), count)
		} else {
			fmt.Println(count)
		}
	}
	return count, nil
}

func printMatchLine(name string, showName bool, from, to incsearch.Position, lines []string) {
	if from.Line >= len(lines) {
		return
	}
	line := []rune(lines[from.Line])

	start := from.Ch
	if start > len(line) {
		start = len(line)
	}
	end := len(line)
	if to.Line == from.Line && to.Ch < end {
		end = to.Ch
	}
	if end < start {
		end = start
	}

	rendered := string(line[:start]) +
		matchStyle.Render(string(line[start:end])) +
		string(line[end:])

	prefix := lineNumStyle.Render(fmt.Sprintf("%d:", from.Line+1))
	if showName {
		prefix = fileStyle.Render(name) + ":" + prefix
	}
	fmt.Printf("%s%s\n", prefix, rendered)
}

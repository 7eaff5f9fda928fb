package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davrell/incsearch"
)

// REPL holds the state of the interactive session
type REPL struct {
	doc    *incsearch.TextDocument
	cursor *incsearch.SearchCursor
	reader *bufio.Reader

	ignoreCase bool
}

func main() {
	fmt.Println("Incsearch REPL - Interactive Search Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		reader: bufio.NewReader(os.Stdin),
	}

	// Main loop
	for {
		fmt.Print("incsearch> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}

	if repl.doc != nil {
		incsearch.ReleaseDocument(repl.doc)
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "load":
		if len(args) < 1 {
			fmt.Println("Usage: load <filename>")
			break
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading file: %v\n", err)
			break
		}
		r.setDocument(string(data))
		fmt.Printf("Loaded %d bytes from %s\n", len(data), args[0])

	case "text":
		// Everything after the command, with \n expanded, becomes
		// the document.
		raw := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		r.setDocument(strings.ReplaceAll(raw, "\\n", "\n"))
		fmt.Println("Document set")

	case "find":
		r.setQuery(args, false)

	case "regex":
		r.setQuery(args, true)

	case "case":
		if len(args) < 1 || (args[0] != "on" && args[0] != "off") {
			fmt.Println("Usage: case on|off")
			break
		}
		r.ignoreCase = args[0] == "off"
		fmt.Printf("Case folding %s\n", map[bool]string{true: "enabled", false: "disabled"}[r.ignoreCase])

	case "next":
		r.navigate(false)

	case "prev":
		r.navigate(true)

	case "count":
		if r.cursor == nil {
			fmt.Println("No search active (use 'find' or 'regex')")
			break
		}
		n, err := r.cursor.GetMatchCount()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			break
		}
		fmt.Printf("%d match(es)\n", n)

	case "list":
		if r.cursor == nil {
			fmt.Println("No search active (use 'find' or 'regex')")
			break
		}
		k := 0
		err := r.cursor.ForEachMatch(func(rg incsearch.Range) bool {
			fmt.Printf("  #%d: (%d,%d)-(%d,%d)\n", k, rg.From.Line, rg.From.Ch, rg.To.Line, rg.To.Ch)
			k++
			return true
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}

	case "info":
		if r.cursor == nil {
			fmt.Println("No search active (use 'find' or 'regex')")
			break
		}
		info, err := r.cursor.GetFullInfoForCurrentMatch()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			break
		}
		if info == nil {
			fmt.Println("Not at a match")
			break
		}
		fmt.Printf("Match at (%d,%d)-(%d,%d)\n", info.From.Line, info.From.Ch, info.To.Line, info.To.Ch)
		for i, g := range info.Groups {
			fmt.Printf("  group %d: %q\n", i, g)
		}

	case "pattern":
		if r.cursor == nil {
			fmt.Println("No search active (use 'find' or 'regex')")
			break
		}
		buckets := 40
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				buckets = n
			}
		}
		p, err := r.cursor.CreateMatchedLinePattern(buckets)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			break
		}
		var sb strings.Builder
		for _, b := range p.Buckets {
			if b != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		fmt.Printf("[%s] (%.2f lines/bucket)\n", sb.String(), p.LinesPerBucket)

	case "show":
		if r.doc == nil {
			fmt.Println("No document loaded")
			break
		}
		for i, line := range strings.Split(r.doc.GetValue(), r.doc.LineSeparator()) {
			fmt.Printf("%4d| %s\n", i, line)
		}

	default:
		fmt.Printf("Unknown command: %s (type 'help')\n", cmd)
	}

	return true
}

func (r *REPL) setDocument(text string) {
	if r.doc != nil {
		incsearch.ReleaseDocument(r.doc)
	}
	r.doc = incsearch.NewTextDocument(text)
	if r.cursor != nil {
		if err := r.cursor.SetSearchDocumentAndQuery(incsearch.SearchProperties{Document: r.doc}); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func (r *REPL) setQuery(args []string, regex bool) {
	if len(args) < 1 {
		fmt.Println("Usage: find|regex <query>")
		return
	}
	if r.doc == nil {
		fmt.Println("No document loaded (use 'load' or 'text')")
		return
	}

	props := incsearch.SearchProperties{
		Document:   r.doc,
		IgnoreCase: r.ignoreCase,
	}
	query := strings.Join(args, " ")
	if regex {
		props.SearchPattern = query
	} else {
		props.SearchText = query
	}

	if r.cursor == nil {
		cursor, err := incsearch.NewSearchCursor(props)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		r.cursor = cursor
	} else if err := r.cursor.SetSearchDocumentAndQuery(props); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	n, err := r.cursor.GetMatchCount()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%d match(es)\n", n)
}

func (r *REPL) navigate(reverse bool) {
	if r.cursor == nil {
		fmt.Println("No search active (use 'find' or 'regex')")
		return
	}
	rg, err := r.cursor.Find(reverse)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if rg == nil {
		fmt.Println("No more matches (repeat to wrap around)")
		return
	}
	n, _ := r.cursor.GetMatchCount()
	fmt.Printf("Match %d/%d at (%d,%d)-(%d,%d)\n",
		r.cursor.GetCurrentMatchNumber()+1, n,
		rg.From.Line, rg.From.Ch, rg.To.Line, rg.To.Ch)
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  load <file>     - Load a file as the document")
	fmt.Println("  text <text>     - Use literal text as the document (\\n for newlines)")
	fmt.Println("  find <text>     - Search for literal text")
	fmt.Println("  regex <pattern> - Search with a regular expression")
	fmt.Println("  case on|off     - Toggle case sensitivity")
	fmt.Println("  next            - Go to the next match")
	fmt.Println("  prev            - Go to the previous match")
	fmt.Println("  count           - Show the match count")
	fmt.Println("  list            - List all match positions")
	fmt.Println("  info            - Show the current match with capture groups")
	fmt.Println("  pattern [n]     - Render the matched-line minimap pattern")
	fmt.Println("  show            - Print the document with line numbers")
	fmt.Println("  help            - Show this help")
	fmt.Println("  quit            - Exit")
}

// Command justlog-view is a tool for viewing and analyzing binary log
// capture files (.jlog) written by the file sink.
//
// Usage:
//
//	justlog-view <command> [flags] <file.jlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all records
//	justlog-view view app.jlog
//
//	# View only warnings and errors
//	justlog-view view --min-level warning app.jlog
//
//	# Export to JSONL
//	justlog-view export --format jsonl app.jlog
//
//	# Show statistics
//	justlog-view stats app.jlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/funcompany/justlog-go/cmd/justlog-view/commands"
	"github.com/funcompany/justlog-go/pkg/logfile"
	"github.com/funcompany/justlog-go/pkg/record"
)

const usage = `justlog-view - Log Capture Analyzer

Usage:
  justlog-view <command> [flags] <file.jlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  stats    Show statistics about the log file

Use "justlog-view <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `justlog-view view - View log file in human-readable format

Usage:
  justlog-view view [flags] <file.jlog>

Flags:
`)
		fs.PrintDefaults()
	}

	level := fs.String("level", "", "Show only this level (verbose, debug, info, warning, error)")
	minLevel := fs.String("min-level", "", "Show this level and above")
	contains := fs.String("contains", "", "Show only messages containing this substring")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter, err := buildFilter(*level, *minLevel, *contains)
	if err != nil {
		fatal(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `justlog-view export - Export log file to JSONL or CSV format

Usage:
  justlog-view export [flags] <file.jlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		out = f
	}

	if err := commands.RunExport(path, *format, out); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `justlog-view stats - Show statistics about the log file

Usage:
  justlog-view stats <file.jlog>
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func buildFilter(level, minLevel, contains string) (logfile.Filter, error) {
	var filter logfile.Filter
	if level != "" {
		lvl, err := record.ParseLevel(level)
		if err != nil {
			return filter, err
		}
		filter.Level = &lvl
	}
	if minLevel != "" {
		lvl, err := record.ParseLevel(minLevel)
		if err != nil {
			return filter, err
		}
		filter.MinLevel = &lvl
	}
	filter.MessageContains = contains
	return filter, nil
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

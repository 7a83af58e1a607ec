// Command dslink-log is a tool for viewing and analyzing requester protocol
// log files.
//
// Log files are written by a requester configured with a protocol_log_path.
//
// Usage:
//
//	dslink-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	dslink-log view requester.dlog
//
//	# View only subscription events below a path
//	dslink-log view --layer subscription --path /downstream/dual requester.dlog
//
//	# Export to JSONL
//	dslink-log export --format jsonl requester.dlog
//
//	# Keep one session (full or short id as shown by view) and save to new file
//	dslink-log filter --session 1b4e28ba -o session.dlog requester.dlog
//
//	# Show statistics
//	dslink-log stats requester.dlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/dslink-go/dslink/cmd/dslink-log/commands"
)

const usage = `dslink-log - DSLink requester protocol log analyzer

Usage:
  dslink-log <command> [flags] <file.dlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "dslink-log <command> -help" for more information about a command.
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
	case "filter":
		runFilter(args)
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

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dslink-log view - View log file in human-readable format

Usage:
  dslink-log view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	var opts commands.FilterOptions
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (link, correlation, subscription)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&opts.PathPrefix, "path", "", "Filter by node path prefix")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	view := commands.ViewOptions{
		Filter: filter,
		Color:  !*noColor && !color.NoColor,
	}
	if err := commands.RunView(path, view, color.Output); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dslink-log export - Export log file to JSONL or CSV format

Usage:
  dslink-log export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dslink-log filter - Filter log file and write to new file

Usage:
  dslink-log filter [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID or its prefix")
	fs.StringVar(&opts.PathPrefix, "path", "", "Filter by node path prefix")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (link, correlation, subscription)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dslink-log stats - Show statistics about the log file

Usage:
  dslink-log stats <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}

// Command haptic-log views and summarizes protocol capture files.
//
// Capture files (.hlog) are written by haptic-sim with the -protocol-log
// flag.
//
// Usage:
//
//	haptic-log <command> [flags] <file.hlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	haptic-log view session.hlog
//
//	# View only wire-layer vibrate commands
//	haptic-log view -layer wire -type vibrate session.hlog
//
//	# View events about one device
//	haptic-log view -device "Je Joue" session.hlog
//
//	# Show statistics
//	haptic-log stats session.hlog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/haptic-protocol/haptic-go/cmd/haptic-log/commands"
	"github.com/haptic-protocol/haptic-go/pkg/log"
)

const usage = `haptic-log - Haptic Protocol Log Viewer

Usage:
  haptic-log <command> [flags] <file.hlog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "haptic-log <command> -help" for more information about a command.
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

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `haptic-log view - View log file in human-readable format

Usage:
  haptic-log view [flags] <file.hlog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transport, wire, session)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, state, error)")
	msgType := fs.String("type", "", "Filter by message type (e.g. vibrate, RawReading)")
	connID := fs.String("conn-id", "", "Filter by connection ID")
	device := fs.String("device", "", "Filter by device name")
	since := fs.Duration("since", 0, "Only events newer than this, relative to now")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := log.Filter{ConnectionID: *connID, DeviceName: *device}

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}
	if *msgType != "" {
		t, err := commands.ParseMessageTypeFlag(*msgType)
		if err != nil {
			fail(err)
		}
		filter.MessageType = &t
	}
	if *since > 0 {
		start := time.Now().Add(-*since)
		filter.TimeStart = &start
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}
	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fail(err)
	}
}

// Command gpcp1dd fetches, decompresses and reads GPCP One-Degree Daily
// precipitation datasets.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/MeteoBoy4/gpcp-1dd/internal/config"
	"github.com/MeteoBoy4/gpcp-1dd/internal/logger"
)

const version = "0.1.0"

// command is one gpcp1dd subcommand.
type command struct {
	name  string
	short string
	run   func(args []string) int
}

var commands = []command{
	{"fetch", "download configured datasets from the archive", runFetch},
	{"decompress", "expand downloaded .gz datasets in place", runDecompress},
	{"status", "show the fetch catalog", runStatus},
	{"header", "print the header of a 1DD file", runHeader},
	{"extract", "print one cell's readings across 1DD files", runExtract},
	{"summary", "print per-day or per-cell statistics of a 1DD file", runSummary},
	{"tsv", "dump a 1DD file as tab-delimited rows", runTSV},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		usage()
		return
	}
	if name == "version" {
		fmt.Println("gpcp1dd", version)
		return
	}

	for _, cmd := range commands {
		if cmd.name == name {
			os.Exit(cmd.run(os.Args[2:]))
		}
	}

	fmt.Fprintf(os.Stderr, "gpcp1dd: unknown subcommand %q\nRun 'gpcp1dd help' for usage.\n", name)
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: gpcp1dd <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", cmd.name, cmd.short)
	}
}

// loadConfig loads configuration and builds the logger for a subcommand.
func loadConfig(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func fatal(err error) int {
	fmt.Fprintln(os.Stderr, "gpcp1dd:", err)
	return 1
}

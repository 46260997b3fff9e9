package main

import (
	"flag"
	"fmt"

	"github.com/fatih/color"

	"github.com/MeteoBoy4/gpcp-1dd/internal/adapter/sqlite"
	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
)

func runStatus(args []string) int {
	flags := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := flags.String("config", "", "path to configuration file")
	flags.Parse(args)

	cfg, log, err := loadConfig(*configPath)
	if err != nil {
		return fatal(err)
	}
	defer log.Sync()

	catalog, err := sqlite.Open(cfg.CatalogPath())
	if err != nil {
		return fatal(fmt.Errorf("failed to open catalog: %w", err))
	}
	defer catalog.Close()

	entries, err := catalog.List()
	if err != nil {
		return fatal(err)
	}

	if len(entries) == 0 {
		fmt.Println("catalog is empty")
		return 0
	}

	fmt.Printf("%-32s %4s %5s %12s %-12s %s\n",
		"name", "year", "month", "bytes", "status", "fetched at")
	for _, e := range entries {
		status := string(e.Status)
		switch e.Status {
		case domain.OutcomeFailed:
			status = color.RedString(status)
		case domain.OutcomeDecompressed:
			status = color.GreenString(status)
		}

		fmt.Printf("%-32s %4d %5d %12d %-12s %s\n",
			e.Name, e.Year, e.Month, e.SizeBytes, status,
			e.FetchedAt.Format("2006-01-02 15:04:05"))
		if e.Error != "" {
			fmt.Printf("  %s\n", e.Error)
		}
	}
	return 0
}

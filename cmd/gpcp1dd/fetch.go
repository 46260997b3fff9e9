package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/MeteoBoy4/gpcp-1dd/internal/adapter/filesystem"
	"github.com/MeteoBoy4/gpcp-1dd/internal/adapter/remote"
	"github.com/MeteoBoy4/gpcp-1dd/internal/adapter/sqlite"
	"github.com/MeteoBoy4/gpcp-1dd/internal/config"
	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
	"github.com/MeteoBoy4/gpcp-1dd/internal/service/decompress"
	"github.com/MeteoBoy4/gpcp-1dd/internal/service/fetch"
)

func runFetch(args []string) int {
	flags := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := flags.String("config", "", "path to configuration file")
	remoteList := flags.Bool("remote-list", false, "enumerate the archive instead of assuming all months exist")
	withDecompress := flags.Bool("decompress", false, "decompress after all downloads complete")
	flags.Parse(args)

	cfg, log, err := loadConfig(*configPath)
	if err != nil {
		return fatal(err)
	}
	defer log.Sync()

	fs, err := filesystem.NewManager(cfg.Data.Dir)
	if err != nil {
		return fatal(err)
	}

	transfer, err := remote.NewClient(cfg.Source.BaseURL, &remote.ClientConfig{
		Timeout: cfg.Fetch.GetTimeout(),
	})
	if err != nil {
		return fatal(err)
	}
	defer transfer.Close()

	catalog := openCatalog(cfg, log)
	if catalog != nil {
		defer catalog.Close()
	}

	fetcher := fetch.New(&fetch.Config{
		Source: domain.Source{
			BaseURL: cfg.Source.BaseURL,
			Prefix:  cfg.Source.Prefix,
			Years:   cfg.Source.Years,
			Months:  cfg.Source.Months,
		},
		Workers:      cfg.Fetch.Workers,
		RequestSpace: cfg.Fetch.GetRequestSpace(),
		RemoteList:   *remoteList || cfg.Fetch.RemoteList,
	}, transfer, fs, catalog, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := fetcher.Run(ctx)
	if err != nil {
		return fatal(err)
	}
	printSummary("fetch", summary)

	// Decompression is a separate pass: it only starts once every
	// download of this run has finished.
	if *withDecompress {
		dec := decompress.New(cfg.Source.Prefix, fs, catalog, log)
		decSummary, err := dec.Run()
		if err != nil {
			return fatal(err)
		}
		printSummary("decompress", decSummary)
		summary.Failed += decSummary.Failed
	}

	if summary.AllFailed() {
		return 1
	}
	return 0
}

// openCatalog opens the catalog store, or returns nil when disabled or
// unavailable. A broken catalog never blocks fetching.
func openCatalog(cfg *config.Config, log *zap.Logger) port.Catalog {
	if !cfg.Catalog.Enabled {
		return nil
	}

	catalog, err := sqlite.Open(cfg.CatalogPath())
	if err != nil {
		log.Warn("catalog unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return catalog
}

// printSummary reports the outcome counts of a pass.
func printSummary(pass string, s *domain.Summary) {
	fmt.Printf("%s: %s, %s, %s (of %d)\n",
		pass,
		color.GreenString("%d ok", s.Fetched+s.Decompressed),
		color.YellowString("%d skipped", s.Skipped),
		color.RedString("%d failed", s.Failed),
		s.Total())

	for _, r := range s.Results {
		if r.Err != nil {
			fmt.Printf("  %s %s: %v\n", color.RedString("failed"), r.Name, r.Err)
		}
	}
}

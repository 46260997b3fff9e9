package main

import (
	"flag"

	"github.com/MeteoBoy4/gpcp-1dd/internal/adapter/filesystem"
	"github.com/MeteoBoy4/gpcp-1dd/internal/service/decompress"
)

func runDecompress(args []string) int {
	flags := flag.NewFlagSet("decompress", flag.ExitOnError)
	configPath := flags.String("config", "", "path to configuration file")
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

	catalog := openCatalog(cfg, log)
	if catalog != nil {
		defer catalog.Close()
	}

	dec := decompress.New(cfg.Source.Prefix, fs, catalog, log)
	summary, err := dec.Run()
	if err != nil {
		return fatal(err)
	}
	printSummary("decompress", summary)

	if summary.AllFailed() {
		return 1
	}
	return 0
}

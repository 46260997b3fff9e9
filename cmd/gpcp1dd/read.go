package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/MeteoBoy4/gpcp-1dd/internal/onedd"
)

func runHeader(args []string) int {
	flags := flag.NewFlagSet("header", flag.ExitOnError)
	flags.Parse(args)

	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpcp1dd header FILE")
		return 2
	}

	r, f, err := openDataset(flags.Arg(0))
	if err != nil {
		return fatal(err)
	}
	defer f.Close()

	for _, field := range r.Header.Fields {
		fmt.Printf("%s = %s\n", field.Key, field.Value)
	}
	return 0
}

func runExtract(args []string) int {
	flags := flag.NewFlagSet("extract", flag.ExitOnError)
	lat := flags.Float64("lat", 0, "box-center latitude (e.g. 39.5)")
	lon := flags.Float64("lon", 0, "box-center longitude (e.g. 116.5)")
	flags.Parse(args)

	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpcp1dd extract -lat L -lon G FILE...")
		return 2
	}

	out := csv.NewWriter(os.Stdout)
	defer out.Flush()
	out.Write([]string{"year", "month", "day", "lat", "lon", "value"})

	for _, path := range flags.Args() {
		r, f, err := openDataset(path)
		if err != nil {
			return fatal(err)
		}

		rows, err := onedd.Extract(r, *lat, *lon)
		f.Close()
		if err != nil {
			return fatal(err)
		}

		for _, row := range rows {
			out.Write([]string{
				strconv.Itoa(row.Year),
				strconv.Itoa(row.Month),
				strconv.Itoa(row.Day),
				strconv.FormatFloat(row.Lat, 'g', -1, 64),
				strconv.FormatFloat(row.Lon, 'g', -1, 64),
				strconv.FormatFloat(float64(row.Value), 'g', -1, 32),
			})
		}
	}
	return 0
}

func runSummary(args []string) int {
	flags := flag.NewFlagSet("summary", flag.ExitOnError)
	byCell := flags.Bool("by-cell", false, "summarize each grid cell across the month instead of each day")
	flags.Parse(args)

	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpcp1dd summary [-by-cell] FILE")
		return 2
	}

	r, f, err := openDataset(flags.Arg(0))
	if err != nil {
		return fatal(err)
	}
	defer f.Close()

	if *byCell {
		return cellSummary(r)
	}
	return daySummary(r)
}

// daySummary prints mean and standard deviation per day.
func daySummary(r *onedd.Reader) int {
	fmt.Printf("%10s %8s %8s\n", "date", "mean", "sd")

	err := r.EachDay(func(day *onedd.Day) error {
		s := onedd.Summarize(day.Readings)
		fmt.Printf("%10s %8.2f %8.2f\n", day.Date.Format("2006-01-02"), s.Mean, s.SD)
		return nil
	})
	if err != nil {
		return fatal(err)
	}
	return 0
}

// cellSummary prints per-cell statistics across the month in tab-delimited
// form.
func cellSummary(r *onedd.Reader) int {
	cells, err := onedd.SummarizeCells(r)
	if err != nil {
		return fatal(err)
	}

	out := csv.NewWriter(os.Stdout)
	out.Comma = '\t'
	defer out.Flush()

	out.Write([]string{"year", "month", "latitude", "longitude",
		"mean", "sd", "minimum", "maximum"})
	for _, c := range cells {
		out.Write([]string{
			strconv.Itoa(r.Year()),
			strconv.Itoa(r.Month()),
			strconv.FormatFloat(c.Lat, 'g', -1, 64),
			strconv.FormatFloat(c.Lon, 'g', -1, 64),
			strconv.FormatFloat(c.Mean, 'g', -1, 64),
			strconv.FormatFloat(c.SD, 'g', -1, 64),
			strconv.FormatFloat(c.Min, 'g', -1, 64),
			strconv.FormatFloat(c.Max, 'g', -1, 64),
		})
	}
	return 0
}

func runTSV(args []string) int {
	flags := flag.NewFlagSet("tsv", flag.ExitOnError)
	noHeaders := flags.Bool("no-headers", false, "omit the header row")
	flags.Parse(args)

	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpcp1dd tsv [-no-headers] FILE")
		return 2
	}

	r, f, err := openDataset(flags.Arg(0))
	if err != nil {
		return fatal(err)
	}
	defer f.Close()

	if err := onedd.WriteTSV(os.Stdout, r, !*noHeaders); err != nil {
		return fatal(err)
	}
	return 0
}

// openDataset opens a 1DD file and parses its header. The caller closes
// the returned file.
func openDataset(path string) (*onedd.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	r, err := onedd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, f, nil
}

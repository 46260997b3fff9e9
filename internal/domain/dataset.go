package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// FilenamePattern matches a GPCP 1DD compressed dataset name and captures
// the year and month.
var FilenamePattern = regexp.MustCompile(`^(.+\.)(\d{4})(\d{2})\.gz$`)

// Source describes where monthly datasets live and which of them to fetch.
type Source struct {
	BaseURL string // protocol + host + path, no trailing slash
	Prefix  string // filename prefix, including the trailing dot
	Years   []int
	Months  []int // empty means all twelve months
}

// WorkItem is a single (year, month) dataset to transfer.
type WorkItem struct {
	Year  int
	Month int
}

// Filename returns the compressed dataset name for a year and month,
// e.g. gpcp_1dd_v1.1_p1d.200203.gz.
func (s *Source) Filename(year, month int) string {
	return fmt.Sprintf("%s%04d%02d.gz", s.Prefix, year, month)
}

// Filename returns the compressed dataset name of the item.
func (w WorkItem) Filename(s *Source) string {
	return s.Filename(w.Year, w.Month)
}

// RemoteRef returns the full remote reference for a dataset name.
func (s *Source) RemoteRef(name string) string {
	return s.BaseURL + "/" + name
}

// Plan expands the source into an ordered list of work items: years in
// configured order, months ascending within each year.
func (s *Source) Plan() []WorkItem {
	months := s.Months
	if len(months) == 0 {
		months = allMonths()
	}

	items := make([]WorkItem, 0, len(s.Years)*len(months))
	for _, year := range s.Years {
		for _, month := range months {
			items = append(items, WorkItem{Year: year, Month: month})
		}
	}
	return items
}

// MonthGroup is the per-year grouping used for progress reporting. The
// dataset archive splits each year into months 01-09 and 10-12.
type MonthGroup struct {
	Year    int
	Label   string
	Members []WorkItem
}

// Groups partitions a plan into month groups, preserving item order.
// Items for months 1-9 go into the "0[1-9]" group of their year, items for
// months 10-12 into the "1[0-2]" group.
func Groups(items []WorkItem) []MonthGroup {
	var groups []MonthGroup
	find := func(year int, label string) *MonthGroup {
		for i := range groups {
			if groups[i].Year == year && groups[i].Label == label {
				return &groups[i]
			}
		}
		groups = append(groups, MonthGroup{Year: year, Label: label})
		return &groups[len(groups)-1]
	}

	for _, item := range items {
		label := "0[1-9]"
		if item.Month >= 10 {
			label = "1[0-2]"
		}
		g := find(item.Year, label)
		g.Members = append(g.Members, item)
	}
	return groups
}

// ParseFilename extracts the year and month from a compressed dataset name.
func ParseFilename(name string) (year, month int, err error) {
	m := FilenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q does not match dataset naming", ErrInvalidInput, name)
	}
	year, _ = strconv.Atoi(m[2])
	month, _ = strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %02d out of range in %q", ErrInvalidInput, month, name)
	}
	return year, month, nil
}

func allMonths() []int {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

package domain

import "time"

// Outcome classifies what happened to a single work item.
type Outcome string

const (
	OutcomeFetched      Outcome = "fetched"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeFailed       Outcome = "failed"
	OutcomeDecompressed Outcome = "decompressed"
)

// Result records the outcome of one transfer or decompression.
type Result struct {
	Item      WorkItem
	Name      string
	LocalPath string
	Bytes     int64
	Outcome   Outcome
	Err       error
	When      time.Time
}

// Summary aggregates per-item results for a pass. A pass never stops on an
// individual failure; the summary is how partial success is reported.
type Summary struct {
	Fetched      int
	Decompressed int
	Skipped      int
	Failed       int
	Results      []Result
}

// Add records a result in the summary.
func (s *Summary) Add(r Result) {
	switch r.Outcome {
	case OutcomeFetched:
		s.Fetched++
	case OutcomeDecompressed:
		s.Decompressed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// Total returns the number of recorded results.
func (s *Summary) Total() int {
	return len(s.Results)
}

// AllFailed reports whether every attempted item failed. Skips do not count
// as attempts.
func (s *Summary) AllFailed() bool {
	return s.Failed > 0 && s.Fetched == 0 && s.Decompressed == 0 && s.Skipped == 0
}

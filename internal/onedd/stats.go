package onedd

import "math"

// Stats summarizes a set of readings.
type Stats struct {
	Mean float64
	SD   float64
	Min  float64
	Max  float64
}

// Summarize computes mean, sample standard deviation, minimum and maximum
// of the readings. The standard deviation of fewer than two readings is 0.
func Summarize(readings []float32) Stats {
	if len(readings) == 0 {
		return Stats{}
	}

	s := Stats{
		Min: float64(readings[0]),
		Max: float64(readings[0]),
	}

	var sum float64
	for _, r := range readings {
		v := float64(r)
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(readings))

	if len(readings) > 1 {
		var sq float64
		for _, r := range readings {
			d := float64(r) - s.Mean
			sq += d * d
		}
		s.SD = math.Sqrt(sq / float64(len(readings)-1))
	}
	return s
}

// CellSummary holds the per-cell statistics of one grid cell across a month.
type CellSummary struct {
	Lat, Lon float64
	Stats
}

// SummarizeCells computes per-cell statistics across all days of the file.
func SummarizeCells(r *Reader) ([]CellSummary, error) {
	// One column of samples per cell, one sample per day
	samples := make([][]float32, CellsPerDay)
	for i := range samples {
		samples[i] = make([]float32, 0, r.Days())
	}

	err := r.EachDay(func(day *Day) error {
		for i, v := range day.Readings {
			samples[i] = append(samples[i], v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cells := make([]CellSummary, CellsPerDay)
	for i := range cells {
		lat, lon := Coordinate(i)
		cells[i] = CellSummary{Lat: lat, Lon: lon, Stats: Summarize(samples[i])}
	}
	return cells, nil
}

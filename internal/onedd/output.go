package onedd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteTSV writes the whole month as date, latitude, longitude and
// precipitation rows in tab-delimited form, with an optional header row.
func WriteTSV(w io.Writer, r *Reader, headers bool) error {
	out := csv.NewWriter(w)
	out.Comma = '\t'

	if headers {
		if err := out.Write([]string{"date", "latitude", "longitude", "precip_mm"}); err != nil {
			return err
		}
	}

	err := r.EachDay(func(day *Day) error {
		date := day.Date.Format("2006-01-02")
		for i, v := range day.Readings {
			lat, lon := Coordinate(i)
			row := []string{
				date,
				formatCoord(lat),
				formatCoord(lon),
				formatReading(v),
			}
			if err := out.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	out.Flush()
	return out.Error()
}

// Extraction is the value of one cell on one day.
type Extraction struct {
	Year, Month, Day int
	Lat, Lon         float64
	Value            float32
}

// Extract returns the readings of a single cell across all days of the
// file. The coordinate must be a 1DD box center.
func Extract(r *Reader, lat, lon float64) ([]Extraction, error) {
	cell := CellIndex(lat, lon)
	if cell < 0 {
		return nil, fmt.Errorf("(%v, %v) is not a box-center coordinate", lat, lon)
	}

	rows := make([]Extraction, 0, r.Days())
	err := r.EachDay(func(day *Day) error {
		rows = append(rows, Extraction{
			Year:  r.Year(),
			Month: r.Month(),
			Day:   day.Index + 1,
			Lat:   lat,
			Lon:   lon,
			Value: day.Readings[cell],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatReading(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

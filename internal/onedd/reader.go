package onedd

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
)

// Grid dimensions of a single day.
const (
	Lons = 360
	Lats = 180

	// CellsPerDay is the number of readings in one day grid.
	CellsPerDay = Lons * Lats

	realSize = 4
	daySize  = CellsPerDay * realSize
)

// Day is one day of readings.
type Day struct {
	Index    int // 0-based position in the file
	Date     time.Time
	Readings []float32
}

// Coordinate returns the box-center latitude and longitude of a cell index.
func Coordinate(i int) (lat, lon float64) {
	return 89.5 - float64(i/Lons), 0.5 + float64(i%Lons)
}

// CellIndex returns the cell index for a box-center coordinate, or -1 when
// the coordinate is not a 1DD box center.
func CellIndex(lat, lon float64) int {
	row := 89.5 - lat
	col := lon - 0.5
	if row != math.Trunc(row) || col != math.Trunc(col) {
		return -1
	}
	if row < 0 || row >= Lats || col < 0 || col >= Lons {
		return -1
	}
	return int(row)*Lons + int(col)
}

// Reader reads day grids from a 1DD file.
type Reader struct {
	Header *Header

	r     io.ReadSeeker
	year  int
	month int
	days  int
}

// NewReader parses the header of a 1DD file and prepares day access.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadHeader, err)
	}

	header, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}

	year, err := header.Year()
	if err != nil {
		return nil, err
	}
	month, err := header.Month()
	if err != nil {
		return nil, err
	}
	days, err := header.Days()
	if err != nil {
		return nil, err
	}
	if days < 1 || days > 31 {
		return nil, fmt.Errorf("%w: %d days", domain.ErrBadHeader, days)
	}

	return &Reader{
		Header: header,
		r:      r,
		year:   year,
		month:  month,
		days:   days,
	}, nil
}

// Year returns the year covered by the file.
func (r *Reader) Year() int { return r.year }

// Month returns the month covered by the file.
func (r *Reader) Month() int { return r.month }

// Days returns the number of day grids in the file.
func (r *Reader) Days() int { return r.days }

// Day reads a single day grid by 0-based index.
func (r *Reader) Day(i int) (*Day, error) {
	if i < 0 || i >= r.days {
		return nil, fmt.Errorf("%w: day index %d out of range 0-%d",
			domain.ErrInvalidInput, i, r.days-1)
	}

	if _, err := r.r.Seek(int64(HeaderSize)+int64(i)*daySize, io.SeekStart); err != nil {
		return nil, err
	}
	return r.readDay(i)
}

// EachDay reads every day grid in order, calling fn for each. The readings
// slice is reused between calls; fn must copy values it keeps.
func (r *Reader) EachDay(fn func(*Day) error) error {
	if _, err := r.r.Seek(HeaderSize, io.SeekStart); err != nil {
		return err
	}

	day := &Day{Readings: make([]float32, CellsPerDay)}
	buf := make([]byte, daySize)

	for i := 0; i < r.days; i++ {
		if _, err := io.ReadFull(r.r, buf); err != nil {
			return fmt.Errorf("%w: day %d: %v", domain.ErrTruncatedData, i+1, err)
		}
		decodeReadings(buf, day.Readings)
		day.Index = i
		day.Date = time.Date(r.year, time.Month(r.month), i+1, 0, 0, 0, 0, time.UTC)

		if err := fn(day); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readDay(i int) (*Day, error) {
	buf := make([]byte, daySize)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, fmt.Errorf("%w: day %d: %v", domain.ErrTruncatedData, i+1, err)
	}

	readings := make([]float32, CellsPerDay)
	decodeReadings(buf, readings)

	return &Day{
		Index:    i,
		Date:     time.Date(r.year, time.Month(r.month), i+1, 0, 0, 0, 0, time.UTC),
		Readings: readings,
	}, nil
}

// decodeReadings unpacks big-endian float32 values into out.
func decodeReadings(buf []byte, out []float32) {
	for i := range out {
		bits := binary.BigEndian.Uint32(buf[i*realSize:])
		out[i] = math.Float32frombits(bits)
	}
}

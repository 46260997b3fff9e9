// Package onedd reads GPCP One-Degree Daily precipitation data files.
//
// A 1DD file starts with a 1440-byte ASCII header of key=value pairs,
// followed by one grid per day of the month. Each grid holds 360x180
// big-endian 4-byte REALs, row-major from (89.5N, 0.5E) eastward and then
// southward to (89.5S, 359.5E).
package onedd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
)

// HeaderSize is the fixed byte length of the file header.
const HeaderSize = 1440

// keyPattern locates the key= tokens in the header text. A value runs from
// its key's equals sign to the start of the next key (or end of header).
var keyPattern = regexp.MustCompile(`(\w+)=`)

// Field is a single ordered header entry.
type Field struct {
	Key   string
	Value string
}

// Header holds the parsed file header.
type Header struct {
	Fields []Field
	byKey  map[string]string
}

// ParseHeader parses the raw header block. Trailing NUL and space padding
// is ignored.
func ParseHeader(raw []byte) (*Header, error) {
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("%w: header block is %d bytes, want %d",
			domain.ErrBadHeader, len(raw), HeaderSize)
	}

	text := strings.TrimRight(string(raw[:HeaderSize]), " \x00\n")

	locs := keyPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: no key=value pairs found", domain.ErrBadHeader)
	}

	h := &Header{byKey: make(map[string]string, len(locs))}
	for i, loc := range locs {
		key := text[loc[2]:loc[3]]

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := strings.TrimRight(text[loc[1]:end], " ")

		h.Fields = append(h.Fields, Field{Key: key, Value: value})
		h.byKey[key] = value
	}
	return h, nil
}

// Get returns a header value by key.
func (h *Header) Get(key string) (string, bool) {
	v, ok := h.byKey[key]
	return v, ok
}

// Year returns the year covered by the file.
func (h *Header) Year() (int, error) {
	return h.intField("year")
}

// Month returns the month covered by the file.
func (h *Header) Month() (int, error) {
	return h.intField("month")
}

// Days returns the number of day grids in the file, taken from the upper
// bound of the days=1-31 header field.
func (h *Header) Days() (int, error) {
	v, ok := h.byKey["days"]
	if !ok {
		return 0, fmt.Errorf("%w: missing days field", domain.ErrBadHeader)
	}

	parts := strings.Split(v, "-")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad days field %q", domain.ErrBadHeader, v)
	}
	return n, nil
}

// MissingValue returns the magic number marking missing readings.
func (h *Header) MissingValue() (float32, error) {
	v, ok := h.byKey["missing_value"]
	if !ok {
		return 0, fmt.Errorf("%w: missing missing_value field", domain.ErrBadHeader)
	}

	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad missing_value %q", domain.ErrBadHeader, v)
	}
	return float32(f), nil
}

func (h *Header) intField(key string) (int, error) {
	v, ok := h.byKey[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s field", domain.ErrBadHeader, key)
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s field %q", domain.ErrBadHeader, key, v)
	}
	return n, nil
}

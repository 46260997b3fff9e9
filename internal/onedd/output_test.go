package onedd

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTSV(t *testing.T) {
	r, err := NewReader(bytes.NewReader(buildFile(2008, 1, 1, flatFill)))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := WriteTSV(&out, r, true); err != nil {
		t.Fatalf("WriteTSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1+CellsPerDay {
		t.Fatalf("got %d lines, want %d", len(lines), 1+CellsPerDay)
	}
	if lines[0] != "date\tlatitude\tlongitude\tprecip_mm" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[1] != "2008-01-01\t89.5\t0.5\t1" {
		t.Errorf("first data line = %q", lines[1])
	}
	if lines[len(lines)-1] != "2008-01-01\t-89.5\t359.5\t1" {
		t.Errorf("last data line = %q", lines[len(lines)-1])
	}
}

func TestWriteTSV_NoHeaders(t *testing.T) {
	r, err := NewReader(bytes.NewReader(buildFile(2008, 1, 1, flatFill)))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := WriteTSV(&out, r, false); err != nil {
		t.Fatal(err)
	}

	if strings.HasPrefix(out.String(), "date\t") {
		t.Error("header row written despite headers=false")
	}
}

func TestExtract(t *testing.T) {
	// Cell 361 is (88.5, 1.5); give it a recognizable value per day
	data := buildFile(2008, 2, 3, func(day, cell int) float32 {
		if cell == 361 {
			return float32(day+1) * 1.25
		}
		return 0
	})
	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Extract(r, 88.5, 1.5)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	for i, row := range rows {
		if row.Year != 2008 || row.Month != 2 || row.Day != i+1 {
			t.Errorf("row %d date = %d-%d-%d", i, row.Year, row.Month, row.Day)
		}
		if row.Lat != 88.5 || row.Lon != 1.5 {
			t.Errorf("row %d coordinate = (%v, %v)", i, row.Lat, row.Lon)
		}
		if want := float32(i+1) * 1.25; row.Value != want {
			t.Errorf("row %d value = %v, want %v", i, row.Value, want)
		}
	}
}

func TestExtract_BadCoordinate(t *testing.T) {
	r, err := NewReader(bytes.NewReader(buildFile(2008, 1, 1, flatFill)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Extract(r, 88.7, 1.5); err == nil {
		t.Error("expected error for non box-center coordinate")
	}
}

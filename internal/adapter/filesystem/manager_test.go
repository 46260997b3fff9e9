package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestManager_Write(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, n, err := m.Write("file.dat", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n != 5 {
		t.Errorf("Write() wrote %d bytes, want 5", n)
	}
	if path != m.Path("file.dat") {
		t.Errorf("Write() path = %q, want %q", path, m.Path("file.dat"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".downloading"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file was not cleaned up")
	}
}

func TestManager_Write_FailedReadLeavesNothing(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	broken := iotest.ErrReader(errors.New("connection reset"))
	if _, _, err := m.Write("file.dat", broken); err == nil {
		t.Fatal("expected write error")
	}

	// Neither the final file nor the temp file may exist
	if m.Exists("file.dat") {
		t.Error("final file exists after failed write")
	}
	if _, err := os.Stat(m.Path("file.dat") + ".downloading"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file exists after failed write")
	}
}

func TestManager_Exists(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if m.Exists("missing.gz") {
		t.Error("Exists() = true for missing file")
	}

	if _, _, err := m.Write("present.gz", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if !m.Exists("present.gz") {
		t.Error("Exists() = false for present file")
	}
}

func TestManager_Glob(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	files := []string{
		"gpcp_1dd_v1.1_p1d.200801.gz",
		"gpcp_1dd_v1.1_p1d.200802.gz",
		"notes.txt",
	}
	for _, name := range files {
		if _, _, err := m.Write(name, strings.NewReader("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(m.DataDir(), "gpcp_1dd_v1.1_p1d.sub.gz"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := m.Glob("gpcp_1dd_v1.1_p1d.*.gz")
	if err != nil {
		t.Fatalf("Glob() error: %v", err)
	}

	want := []string{
		"gpcp_1dd_v1.1_p1d.200801.gz",
		"gpcp_1dd_v1.1_p1d.200802.gz",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Glob() = %v, want %v", got, want)
	}
}

func TestManager_Remove(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := m.Write("gone.gz", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("gone.gz"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if m.Exists("gone.gz") {
		t.Error("file still exists after Remove()")
	}
}

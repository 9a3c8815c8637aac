package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WriteWith(t *testing.T) {
	fs := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "tables", "x_virtual.h")

	err := WriteWith(fs, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "const int X_VIRTUAL_GRID[1][1] = {{0}};\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteWith failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "const int X_VIRTUAL_GRID[1][1] = {{0}};\n" {
		t.Errorf("unexpected content %q", data)
	}
	if !fs.Exists(filepath.Dir(path)) {
		t.Error("expected parent directory to be created")
	}
}

func TestMemoryFileSystem_WriteWith(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := WriteWith(mfs, "/out/regions.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "XVirtual=0, YVirtual=0, BoundBox=not found\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteWith failed: %v", err)
	}

	data, err := mfs.ReadFile("/out/regions.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "XVirtual=0, YVirtual=0, BoundBox=not found\n" {
		t.Errorf("unexpected content %q", data)
	}
	if !mfs.Exists("/out") {
		t.Error("expected /out to exist")
	}
	if got := mfs.Files(); len(got) != 1 || got[0] != "/out/regions.txt" {
		t.Errorf("Files() = %v", got)
	}
}

func TestWriteWith_PropagatesWriterError(t *testing.T) {
	mfs := NewMemoryFileSystem()
	boom := errors.New("boom")

	err := WriteWith(mfs, "broken.txt", func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	// The file is still closed and left empty.
	data, err := mfs.ReadFile("broken.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file, got %q", data)
	}
}

func TestMemoryFileSystem_Conflicts(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if _, err := mfs.Create("/a/b"); err == nil {
		t.Error("expected error creating a file over a directory")
	}

	w, err := mfs.Create("/a/file")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	w.Close()
	if err := mfs.MkdirAll("/a/file/sub", 0o755); err == nil {
		t.Error("expected error creating a directory under a file")
	}
}

func TestMemoryFileSystem_ReadNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadFile("/nonexistent.txt")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestMemoryFileSystem_DataIsolation(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := WriteWith(mfs, "/iso.txt", func(w io.Writer) error {
		_, err := w.Write([]byte("original"))
		return err
	}); err != nil {
		t.Fatalf("WriteWith failed: %v", err)
	}

	data, _ := mfs.ReadFile("/iso.txt")
	data[0] = 'X'

	again, _ := mfs.ReadFile("/iso.txt")
	if string(again) != "original" {
		t.Errorf("stored data modified through returned slice: %q", again)
	}
}

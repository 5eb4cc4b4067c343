package loader

import (
	"os"
	"testing"

	"nqpv/qop"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dl := DirLoader{Root: dir}

	want := qop.P0()
	if err := dl.Save("p0.bin", want); err != nil {
		t.Fatal(err)
	}
	got, err := dl.Load("p0.bin")
	if err != nil {
		t.Fatal(err)
	}
	if !qop.Equal(got, want, 1e-12) {
		t.Fatalf("loaded tensor does not match the saved one")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dl := DirLoader{Root: t.TempDir()}
	_, err := dl.Load("nope.bin")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if _, ok := err.(*IOError); !ok {
		t.Fatalf("expected an *IOError, got %T", err)
	}
}

func TestLoadTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	dl := DirLoader{Root: dir}
	if err := dl.Save("full.bin", qop.EyeTensor(1)); err != nil {
		t.Fatal(err)
	}
	// Write a header claiming 1 qubit but no body at all.
	truncated := dir + "/trunc.bin"
	if err := os.WriteFile(truncated, []byte{1, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := dl.Load("trunc.bin"); err == nil {
		t.Fatalf("expected an error for a truncated operator body")
	}
}

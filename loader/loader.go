// Package loader defines the operator-file boundary of spec.md §6: loading a
// complex operator tensor from a path. A file holds a qubit count and an
// operator's entries; it carries no rank, so every load yields an operator
// and no file is read as a measurement. Grounded on the Load* functions
// of ntru/io/io.go: read the whole file, decode a fixed header, validate
// shape, return a typed error on any mismatch rather than a partially
// populated value.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"nqpv/qop"
)

// IOError reports a missing file, malformed encoding, or unreadable module
// (spec.md §7, "I/O" error kind).
type IOError struct {
	Path string
	Msg  string
}

func (e *IOError) Error() string { return fmt.Sprintf("loader: %s: %s", e.Path, e.Msg) }

// OperatorFile is the external interface boundary: resolving a path to a
// loaded operator tensor. It returns operators only: there is no on-disk
// measurement encoding, and nothing in this package or the driver builds a
// qop.Measurement from loaded tensors. DirLoader's encoding is one minimal
// choice of file format (see DESIGN.md).
type OperatorFile interface {
	Load(path string) (*qop.Tensor, error)
}

// DirLoader resolves load and save paths under Root and decodes a minimal
// little-endian binary encoding: a uint32 qubit count, followed by
// 2*(2^qnum)^2 float64s (interleaved real/imaginary, row-major) — standing
// in for the numpy-format files of spec.md §6, which this core does not
// parse (no numpy/.npy library is wired; parsing that format is an external
// collaborator's concern per spec.md §1).
type DirLoader struct {
	Root string
}

// Load reads and decodes the operator at Root/path.
func (d DirLoader) Load(path string) (*qop.Tensor, error) {
	full := d.Root + "/" + path
	f, err := os.Open(full)
	if err != nil {
		return nil, &IOError{Path: full, Msg: err.Error()}
	}
	defer f.Close()

	var qnum uint32
	if err := binary.Read(f, binary.LittleEndian, &qnum); err != nil {
		return nil, &IOError{Path: full, Msg: "missing or truncated header: " + err.Error()}
	}
	dim := 1 << qnum
	data := make([]complex128, dim*dim)
	for i := range data {
		var re, im float64
		if err := binary.Read(f, binary.LittleEndian, &re); err != nil {
			return nil, &IOError{Path: full, Msg: "truncated operator body: " + err.Error()}
		}
		if err := binary.Read(f, binary.LittleEndian, &im); err != nil {
			return nil, &IOError{Path: full, Msg: "truncated operator body: " + err.Error()}
		}
		data[i] = complex(re, im)
	}
	var trailer [1]byte
	if _, err := f.Read(trailer[:]); err != io.EOF {
		return nil, &IOError{Path: full, Msg: "trailing bytes after operator body"}
	}
	t, err := qop.NewTensor(int(qnum), data)
	if err != nil {
		return nil, &IOError{Path: full, Msg: err.Error()}
	}
	return t, nil
}

// Save writes t to Root/path in the same encoding Load reads, for the
// `save` command of spec.md §6.
func (d DirLoader) Save(path string, t *qop.Tensor) error {
	full := d.Root + "/" + path
	f, err := os.Create(full)
	if err != nil {
		return &IOError{Path: full, Msg: err.Error()}
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, uint32(t.Qnum)); err != nil {
		return &IOError{Path: full, Msg: err.Error()}
	}
	for r := 0; r < t.Dim; r++ {
		for c := 0; c < t.Dim; c++ {
			v := t.At(r, c)
			if err := binary.Write(f, binary.LittleEndian, real(v)); err != nil {
				return &IOError{Path: full, Msg: err.Error()}
			}
			if err := binary.Write(f, binary.LittleEndian, imag(v)); err != nil {
				return &IOError{Path: full, Msg: err.Error()}
			}
		}
	}
	return nil
}

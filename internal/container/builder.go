package container

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Builder assembles a container in memory and writes it out in one pass.
// It exists for tests and small conversion tooling; this package is not a
// general-purpose cube writing service.
type Builder struct {
	attrNames []string
	attrs     map[string]attrValue
	entries   []builderEntry
	names     map[string]bool
}

type builderEntry struct {
	name string
	dt   Dtype
	dims []int
	blob []byte
}

// NewBuilder returns an empty container builder.
func NewBuilder() *Builder {
	return &Builder{
		attrs: make(map[string]attrValue),
		names: make(map[string]bool),
	}
}

// SetAttrInt sets an integer attribute.
func (b *Builder) SetAttrInt(name string, v int64) {
	b.setAttr(name, attrValue{kind: attrInt, i: v})
}

// SetAttrFloat sets a float attribute.
func (b *Builder) SetAttrFloat(name string, v float64) {
	b.setAttr(name, attrValue{kind: attrFloat, f: v})
}

// SetAttrString sets a string attribute.
func (b *Builder) SetAttrString(name, v string) {
	b.setAttr(name, attrValue{kind: attrString, s: v})
}

// SetAttrStringList sets a string-list attribute.
func (b *Builder) SetAttrStringList(name string, v []string) {
	b.setAttr(name, attrValue{kind: attrStringList, list: append([]string(nil), v...)})
}

func (b *Builder) setAttr(name string, v attrValue) {
	if _, ok := b.attrs[name]; !ok {
		b.attrNames = append(b.attrNames, name)
	}
	b.attrs[name] = v
}

// AddFloat adds a float64 entry with the given row-major dims.
func (b *Builder) AddFloat(name string, dims []int, data []float64) error {
	if err := b.checkEntry(name, dims, len(data)); err != nil {
		return err
	}
	blob := make([]byte, len(data)*8)
	for i, v := range data {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	b.entries = append(b.entries, builderEntry{name: name, dt: Float64, dims: dims, blob: blob})
	b.names[name] = true
	return nil
}

// AddComplex adds a complex128 entry with the given row-major dims.
func (b *Builder) AddComplex(name string, dims []int, data []complex128) error {
	if err := b.checkEntry(name, dims, len(data)); err != nil {
		return err
	}
	blob := make([]byte, len(data)*16)
	for i, v := range data {
		binary.LittleEndian.PutUint64(blob[i*16:], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(blob[i*16+8:], math.Float64bits(imag(v)))
	}
	b.entries = append(b.entries, builderEntry{name: name, dt: Complex128, dims: dims, blob: blob})
	b.names[name] = true
	return nil
}

// AddBytes adds a byte entry with the given row-major dims. Masks are stored
// this way, one byte per pixel, as are opaque header blobs.
func (b *Builder) AddBytes(name string, dims []int, data []byte) error {
	if err := b.checkEntry(name, dims, len(data)); err != nil {
		return err
	}
	b.entries = append(b.entries, builderEntry{
		name: name, dt: Bytes, dims: dims, blob: append([]byte(nil), data...),
	})
	b.names[name] = true
	return nil
}

func (b *Builder) checkEntry(name string, dims []int, n int) error {
	if b.names[name] {
		return fmt.Errorf("duplicate entry %q", name)
	}
	if len(dims) == 0 {
		return fmt.Errorf("entry %q: dims must not be empty", name)
	}
	want := 1
	for _, d := range dims {
		if d <= 0 {
			return fmt.Errorf("entry %q: non-positive dim %d", name, d)
		}
		want *= d
	}
	if want != n {
		return fmt.Errorf("entry %q: dims %v need %d elements, got %d", name, dims, want, n)
	}
	return nil
}

// WriteFile writes the assembled container to path.
func (b *Builder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating container: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	// Blob offsets are absolute, so the header size must be known first.
	headerSize := b.headerSize()
	offsets := make([]int64, len(b.entries))
	off := int64(headerSize)
	for i, e := range b.entries {
		offsets[i] = off
		off += int64(len(e.blob))
	}

	w.WriteString(Magic)
	writeUint16(w, Version)
	writeUint16(w, 0) // reserved

	writeUint32(w, uint32(len(b.attrNames)))
	for _, name := range b.attrNames {
		writeName(w, name)
		writeAttrValue(w, b.attrs[name])
	}

	writeUint32(w, uint32(len(b.entries)))
	for i, e := range b.entries {
		writeName(w, e.name)
		w.WriteByte(byte(e.dt))
		w.WriteByte(byte(len(e.dims)))
		for _, d := range e.dims {
			writeUint32(w, uint32(d))
		}
		writeUint64(w, uint64(offsets[i]))
		writeUint64(w, uint64(len(e.blob)))
	}

	for _, e := range b.entries {
		w.Write(e.blob)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}
	return f.Close()
}

func (b *Builder) headerSize() int {
	n := 4 + 2 + 2 // magic, version, reserved
	n += 4
	for _, name := range b.attrNames {
		n += 2 + len(name) + 1 // name, kind
		switch v := b.attrs[name]; v.kind {
		case attrInt, attrFloat:
			n += 8
		case attrString:
			n += 4 + len(v.s)
		case attrStringList:
			n += 4
			for _, s := range v.list {
				n += 4 + len(s)
			}
		}
	}
	n += 4
	for _, e := range b.entries {
		n += 2 + len(e.name) + 1 + 1 + 4*len(e.dims) + 8 + 8
	}
	return n
}

func writeUint16(w *bufio.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeUint32(w *bufio.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint64(w *bufio.Writer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeName(w *bufio.Writer, s string) {
	writeUint16(w, uint16(len(s)))
	w.WriteString(s)
}

func writeLongString(w *bufio.Writer, s string) {
	writeUint32(w, uint32(len(s)))
	w.WriteString(s)
}

func writeAttrValue(w *bufio.Writer, v attrValue) {
	w.WriteByte(v.kind)
	switch v.kind {
	case attrInt:
		writeUint64(w, uint64(v.i))
	case attrFloat:
		writeUint64(w, math.Float64bits(v.f))
	case attrString:
		writeLongString(w, v.s)
	case attrStringList:
		writeUint32(w, uint32(len(v.list)))
		for _, s := range v.list {
			writeLongString(w, s)
		}
	}
}

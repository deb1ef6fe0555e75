package container

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Reader provides read-only access to a container file. The file handle is
// held for the lifetime of the Reader; callers own the Open/Close pairing
// and must Close on every exit path.
type Reader struct {
	path    string
	f       *os.File
	closed  bool
	attrs   map[string]attrValue
	entries map[string]Entry
	order   []string
}

// Open opens a container file and parses its attribute and entry tables.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	r := &Reader{
		path:    path,
		f:       f,
		attrs:   make(map[string]attrValue),
		entries: make(map[string]Entry),
	}
	if err := r.parseHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

// Path returns the container file path.
func (r *Reader) Path() string {
	return r.path
}

func (r *Reader) parseHeader() error {
	br := bufio.NewReader(r.f)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return fmt.Errorf("reading magic: %w", err)
	}
	if string(magic[:]) != Magic {
		return fmt.Errorf("%w: %s", ErrBadMagic, r.path)
	}

	version, err := readUint16(br)
	if err != nil {
		return fmt.Errorf("reading version: %w", err)
	}
	if version != Version {
		return fmt.Errorf("%w: %d", ErrBadVersion, version)
	}
	if _, err := readUint16(br); err != nil { // reserved
		return fmt.Errorf("reading header: %w", err)
	}

	attrCount, err := readUint32(br)
	if err != nil {
		return fmt.Errorf("reading attribute count: %w", err)
	}
	for i := uint32(0); i < attrCount; i++ {
		name, err := readName(br)
		if err != nil {
			return fmt.Errorf("reading attribute name: %w", err)
		}
		val, err := readAttrValue(br)
		if err != nil {
			return fmt.Errorf("reading attribute %q: %w", name, err)
		}
		r.attrs[name] = val
	}

	entryCount, err := readUint32(br)
	if err != nil {
		return fmt.Errorf("reading entry count: %w", err)
	}
	for i := uint32(0); i < entryCount; i++ {
		e, err := readEntry(br)
		if err != nil {
			return fmt.Errorf("reading entry table: %w", err)
		}
		r.entries[e.Name] = e
		r.order = append(r.order, e.Name)
	}
	return nil
}

// HasAttr reports whether the named attribute exists.
func (r *Reader) HasAttr(name string) bool {
	_, ok := r.attrs[name]
	return ok
}

// AttrInt returns an integer attribute value.
func (r *Reader) AttrInt(name string) (int64, bool) {
	v, ok := r.attrs[name]
	if !ok || v.kind != attrInt {
		return 0, false
	}
	return v.i, true
}

// AttrFloat returns a float attribute value.
func (r *Reader) AttrFloat(name string) (float64, bool) {
	v, ok := r.attrs[name]
	if !ok || v.kind != attrFloat {
		return 0, false
	}
	return v.f, true
}

// AttrString returns a string attribute value.
func (r *Reader) AttrString(name string) (string, bool) {
	v, ok := r.attrs[name]
	if !ok || v.kind != attrString {
		return "", false
	}
	return v.s, true
}

// AttrStringList returns a string-list attribute value.
func (r *Reader) AttrStringList(name string) ([]string, bool) {
	v, ok := r.attrs[name]
	if !ok || v.kind != attrStringList {
		return nil, false
	}
	return append([]string(nil), v.list...), true
}

// Entries returns all entries in the order they are stored.
func (r *Reader) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Entry returns the named entry descriptor.
func (r *Reader) Entry(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// HasEntry reports whether the named entry exists.
func (r *Reader) HasEntry(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// ReadBytes reads a whole entry blob. Useful for opaque header entries.
func (r *Reader) ReadBytes(name string) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	buf := make([]byte, e.size)
	if _, err := r.f.ReadAt(buf, e.offset); err != nil {
		return nil, fmt.Errorf("reading entry %q: %w", name, err)
	}
	return buf, nil
}

// ReadFloatRegion reads a rectangular sub-region of a float64 entry.
// start and count give the origin and extent per axis in row-major order.
func (r *Reader) ReadFloatRegion(name string, start, count []int) ([]float64, error) {
	raw, err := r.readRegionRaw(name, start, count, Float64)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out, nil
}

// ReadComplexRegion reads a rectangular sub-region of a complex128 entry.
func (r *Reader) ReadComplexRegion(name string, start, count []int) ([]complex128, error) {
	raw, err := r.readRegionRaw(name, start, count, Complex128)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(raw)/16)
	for i := range out {
		re := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*16+8:]))
		out[i] = complex(re, im)
	}
	return out, nil
}

// ReadBytesRegion reads a rectangular sub-region of a byte entry.
func (r *Reader) ReadBytesRegion(name string, start, count []int) ([]byte, error) {
	return r.readRegionRaw(name, start, count, Bytes)
}

// readRegionRaw fetches the requested region as raw bytes. Only the last
// axis is contiguous on disk, so the region is assembled from one ReadAt
// per innermost run.
func (r *Reader) readRegionRaw(name string, start, count []int, want Dtype) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	if e.Dtype != want {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrWrongDtype, name, e.Dtype, want)
	}
	rank := len(e.Dims)
	if len(start) != rank || len(count) != rank {
		return nil, fmt.Errorf("%w: entry %s has rank %d", ErrRegionRank, name, rank)
	}
	total := 1
	for i := 0; i < rank; i++ {
		if start[i] < 0 || count[i] <= 0 || start[i]+count[i] > e.Dims[i] {
			return nil, fmt.Errorf("%w: axis %d start %d count %d extent %d",
				ErrRegionBounds, i, start[i], count[i], e.Dims[i])
		}
		total *= count[i]
	}

	// Row-major strides in elements.
	strides := make([]int, rank)
	strides[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * e.Dims[i+1]
	}

	esz := e.Dtype.Size()
	out := make([]byte, total*esz)
	runLen := count[rank-1] * esz

	// Odometer over all axes but the last; each step reads one contiguous run.
	idx := make([]int, rank-1)
	dst := 0
	for {
		lin := start[rank-1]
		for a := 0; a < rank-1; a++ {
			lin += (start[a] + idx[a]) * strides[a]
		}
		off := e.offset + int64(lin)*int64(esz)
		if _, err := r.f.ReadAt(out[dst:dst+runLen], off); err != nil {
			return nil, fmt.Errorf("reading entry %q: %w", name, err)
		}
		dst += runLen

		// Advance the odometer.
		a := rank - 2
		for ; a >= 0; a-- {
			idx[a]++
			if idx[a] < count[a] {
				break
			}
			idx[a] = 0
		}
		if a < 0 {
			break
		}
	}
	return out, nil
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readName(r io.Reader) (string, error) {
	n, err := readUint16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readLongString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readAttrValue(r io.Reader) (attrValue, error) {
	var kind [1]byte
	if _, err := io.ReadFull(r, kind[:]); err != nil {
		return attrValue{}, err
	}
	v := attrValue{kind: kind[0]}
	switch kind[0] {
	case attrInt:
		u, err := readUint64(r)
		if err != nil {
			return attrValue{}, err
		}
		v.i = int64(u)
	case attrFloat:
		u, err := readUint64(r)
		if err != nil {
			return attrValue{}, err
		}
		v.f = math.Float64frombits(u)
	case attrString:
		s, err := readLongString(r)
		if err != nil {
			return attrValue{}, err
		}
		v.s = s
	case attrStringList:
		n, err := readUint32(r)
		if err != nil {
			return attrValue{}, err
		}
		v.list = make([]string, n)
		for i := range v.list {
			if v.list[i], err = readLongString(r); err != nil {
				return attrValue{}, err
			}
		}
	default:
		return attrValue{}, fmt.Errorf("unknown attribute kind %d", kind[0])
	}
	return v, nil
}

func readEntry(r io.Reader) (Entry, error) {
	name, err := readName(r)
	if err != nil {
		return Entry{}, err
	}
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Entry{}, err
	}
	dt, rank := Dtype(hdr[0]), int(hdr[1])
	if dt.Size() == 0 {
		return Entry{}, fmt.Errorf("entry %q: unknown dtype %d", name, hdr[0])
	}
	dims := make([]int, rank)
	for i := range dims {
		d, err := readUint32(r)
		if err != nil {
			return Entry{}, err
		}
		dims[i] = int(d)
	}
	offset, err := readUint64(r)
	if err != nil {
		return Entry{}, err
	}
	size, err := readUint64(r)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Dtype: dt, Dims: dims, offset: int64(offset), size: int64(size)}, nil
}

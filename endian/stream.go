package endian

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader reads fixed-size values in a chosen byte order.
// The first error is kept and every later read returns zero values.
type Reader struct {
	r   io.Reader
	err error
	buf [8]byte
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered by the reader.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fill(n int) []byte {
	if r.err != nil {
		return nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		r.err = err
		return nil
	}
	return r.buf[:n]
}

// Bytes reads exactly n bytes into a new slice.
func (r *Reader) Bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.r, out); err != nil {
		r.err = err
		return nil
	}
	return out
}

// LittleUint16 reads a little-endian uint16.
func (r *Reader) LittleUint16() uint16 {
	b := r.fill(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// LittleInt16 reads a little-endian int16.
func (r *Reader) LittleInt16() int16 {
	// #nosec G115 -- bit reinterpretation.
	return int16(r.LittleUint16())
}

// LittleUint32 reads a little-endian uint32.
func (r *Reader) LittleUint32() uint32 {
	b := r.fill(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// LittleInt32 reads a little-endian int32.
func (r *Reader) LittleInt32() int32 {
	// #nosec G115 -- bit reinterpretation.
	return int32(r.LittleUint32())
}

// LittleFloat32 reads a little-endian IEEE 754 float32.
func (r *Reader) LittleFloat32() float32 {
	return math.Float32frombits(r.LittleUint32())
}

// LittleFloat64 reads a little-endian IEEE 754 float64.
func (r *Reader) LittleFloat64() float64 {
	b := r.fill(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// BigUint16 reads a big-endian uint16.
func (r *Reader) BigUint16() uint16 {
	b := r.fill(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// BigInt16 reads a big-endian int16.
func (r *Reader) BigInt16() int16 {
	// #nosec G115 -- bit reinterpretation.
	return int16(r.BigUint16())
}

// BigUint32 reads a big-endian uint32.
func (r *Reader) BigUint32() uint32 {
	b := r.fill(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// BigInt32 reads a big-endian int32.
func (r *Reader) BigInt32() int32 {
	// #nosec G115 -- bit reinterpretation.
	return int32(r.BigUint32())
}

// BigFloat32 reads a big-endian IEEE 754 float32.
func (r *Reader) BigFloat32() float32 {
	return math.Float32frombits(r.BigUint32())
}

// BigFloat64 reads a big-endian IEEE 754 float64.
func (r *Reader) BigFloat64() float64 {
	b := r.fill(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// Writer writes fixed-size values in a chosen byte order.
// The first error is kept and every later write is skipped.
type Writer struct {
	w   io.Writer
	err error
	buf [8]byte
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered by the writer.
func (w *Writer) Err() error {
	return w.err
}

// Write writes p unchanged.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *Writer) flush(n int) {
	_, _ = w.Write(w.buf[:n])
}

// PutLittleUint16 writes v little endian.
func (w *Writer) PutLittleUint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.flush(2)
}

// PutLittleInt16 writes v little endian.
func (w *Writer) PutLittleInt16(v int16) {
	// #nosec G115 -- bit reinterpretation.
	w.PutLittleUint16(uint16(v))
}

// PutLittleUint32 writes v little endian.
func (w *Writer) PutLittleUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.flush(4)
}

// PutLittleInt32 writes v little endian.
func (w *Writer) PutLittleInt32(v int32) {
	// #nosec G115 -- bit reinterpretation.
	w.PutLittleUint32(uint32(v))
}

// PutLittleFloat32 writes f little endian.
func (w *Writer) PutLittleFloat32(f float32) {
	w.PutLittleUint32(math.Float32bits(f))
}

// PutLittleFloat64 writes d little endian.
func (w *Writer) PutLittleFloat64(d float64) {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(d))
	w.flush(8)
}

// PutBigUint16 writes v big endian.
func (w *Writer) PutBigUint16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	w.flush(2)
}

// PutBigInt16 writes v big endian.
func (w *Writer) PutBigInt16(v int16) {
	// #nosec G115 -- bit reinterpretation.
	w.PutBigUint16(uint16(v))
}

// PutBigUint32 writes v big endian.
func (w *Writer) PutBigUint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	w.flush(4)
}

// PutBigInt32 writes v big endian.
func (w *Writer) PutBigInt32(v int32) {
	// #nosec G115 -- bit reinterpretation.
	w.PutBigUint32(uint32(v))
}

// PutBigFloat32 writes f big endian.
func (w *Writer) PutBigFloat32(f float32) {
	w.PutBigUint32(math.Float32bits(f))
}

// PutBigFloat64 writes d big endian.
func (w *Writer) PutBigFloat64(d float64) {
	binary.BigEndian.PutUint64(w.buf[:8], math.Float64bits(d))
	w.flush(8)
}

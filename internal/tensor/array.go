package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// arrayBuffer is a reference-counted shared buffer. Views created from an
// Array share the buffer and keep it alive until every reference is released.
type arrayBuffer struct {
	data     []byte
	refCount atomic.Int32
}

// newArrayBuffer creates a new reference-counted buffer with refCount = 1.
func newArrayBuffer(size int) *arrayBuffer {
	buf := &arrayBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for views).
func (ab *arrayBuffer) addRef() {
	ab.refCount.Add(1)
}

// release decrements the reference count and drops the data at zero.
func (ab *arrayBuffer) release() {
	if ab.refCount.Add(-1) == 0 {
		ab.data = nil
	}
}

// Handle is the opaque identity of an array's storage. Two arrays with the
// same handle alias the same buffer, regardless of which view they are.
type Handle uintptr

// Array is a mutable multi-dimensional buffer with a writable flag.
// Views over the same storage share the underlying reference-counted buffer;
// the autograd bridge hands user code read-only views over engine-owned
// gradient buffers and writable views over gradient destinations.
type Array struct {
	buffer   *arrayBuffer
	shape    Shape
	dtype    DataType
	writable bool
}

// New creates a zero-filled writable array with the given shape and type.
func New(shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		buffer:   newArrayBuffer(shape.NumElements() * dtype.Size()),
		shape:    shape.Clone(),
		dtype:    dtype,
		writable: true,
	}, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// Writable reports whether in-place mutation of this view is permitted.
func (a *Array) Writable() bool {
	return a.writable
}

// Handle returns the opaque identity of the array's storage.
func (a *Array) Handle() Handle {
	return Handle(uintptr(unsafe.Pointer(a.buffer)))
}

// View returns a new array sharing this array's storage, with the given
// writability. The view holds its own buffer reference.
func (a *Array) View(writable bool) *Array {
	a.buffer.addRef()
	return &Array{
		buffer:   a.buffer,
		shape:    a.shape.Clone(),
		dtype:    a.dtype,
		writable: writable,
	}
}

// Release decrements the buffer reference count, dropping the storage once
// the last view is released.
func (a *Array) Release() {
	a.buffer.release()
}

// AsFloat32 interprets the data as []float32.
// Panics if the array's dtype is not Float32.
func (a *Array) AsFloat32() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	//nolint:gosec // zero-copy reinterpretation, bounds come from NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.buffer.data[0])), a.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the array's dtype is not Float64.
func (a *Array) AsFloat64() []float64 {
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	//nolint:gosec // zero-copy reinterpretation, bounds come from NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.buffer.data[0])), a.NumElements())
}

// AssignFrom overwrites this array's contents with src's contents.
// The destination view must be writable and match src in shape and dtype.
func (a *Array) AssignFrom(src *Array) error {
	if err := a.checkDest(src); err != nil {
		return err
	}
	copy(a.buffer.data, src.buffer.data[:len(a.buffer.data)])
	return nil
}

// AccumulateFrom adds src's contents into this array element-wise.
// The destination view must be writable and match src in shape and dtype.
func (a *Array) AccumulateFrom(src *Array) error {
	if err := a.checkDest(src); err != nil {
		return err
	}
	switch a.dtype {
	case Float32:
		dst, s := a.AsFloat32(), src.AsFloat32()
		for i := range dst {
			dst[i] += s[i]
		}
	case Float64:
		dst, s := a.AsFloat64(), src.AsFloat64()
		for i := range dst {
			dst[i] += s[i]
		}
	}
	return nil
}

// checkDest validates an in-place write of src into a.
func (a *Array) checkDest(src *Array) error {
	if !a.writable {
		return fmt.Errorf("array is read-only")
	}
	if a.dtype != src.dtype {
		return fmt.Errorf("dtype mismatch: %s vs %s", a.dtype, src.dtype)
	}
	if !a.shape.Equal(src.shape) {
		return fmt.Errorf("shape mismatch: %v vs %v", a.shape, src.shape)
	}
	return nil
}

package dense

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device an array lives on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	GPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// ParseDevice converts a device name to a Device.
func ParseDevice(name string) (Device, error) {
	switch name {
	case "cpu":
		return CPU, nil
	case "gpu":
		return GPU, nil
	default:
		return CPU, fmt.Errorf("unknown device %q", name)
	}
}

// Buffer is a device-resident mirror of a Raw's bytes.
type Buffer interface {
	// Release frees the device allocation.
	Release()
}

// Runtime uploads host bytes to a device and reads them back. The GPU
// backend implements it; keeping it an interface here avoids an import
// cycle between the buffer layer and the backend.
type Runtime interface {
	Upload(data []byte) (Buffer, error)
	Download(buf Buffer, dst []byte) error
}

// rawBuffer is a reference-counted shared buffer for copy-on-write semantics.
// Cloning an array just bumps the count; kernels may mutate in place when the
// count is 1.
type rawBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // for safe deallocation

	device Buffer // device mirror, nil while host-only
}

func newRawBuffer(size int) *rawBuffer {
	buf := &rawBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

func (rb *rawBuffer) addRef() {
	rb.refCount.Add(1)
}

func (rb *rawBuffer) release() {
	if rb.refCount.Add(-1) == 0 {
		rb.mu.Lock()
		defer rb.mu.Unlock()
		rb.data = nil
		if rb.device != nil {
			rb.device.Release()
			rb.device = nil
		}
	}
}

func (rb *rawBuffer) isUnique() bool {
	return rb.refCount.Load() == 1
}

// Raw is a flat one-dimensional numeric buffer. Every array's leaf data and
// every zero-dimensional scalar is a Raw. The authoritative bytes always
// live on the host; a GPU-homed Raw additionally carries a device mirror.
type Raw struct {
	buffer *rawBuffer
	length int
	dtype  DataType
	device Device
}

// NewRaw allocates a zeroed buffer of n elements.
func NewRaw(n int, dtype DataType, device Device) *Raw {
	if n < 0 {
		panic(fmt.Sprintf("raw: negative length %d", n))
	}
	return &Raw{
		buffer: newRawBuffer(n * dtype.Size()),
		length: n,
		dtype:  dtype,
		device: device,
	}
}

// Len returns the number of elements.
func (r *Raw) Len() int { return r.length }

// DType returns the element type.
func (r *Raw) DType() DataType { return r.dtype }

// Device returns the device the buffer is homed on.
func (r *Raw) Device() Device { return r.device }

// ByteSize returns the total memory size in bytes.
func (r *Raw) ByteSize() int { return r.length * r.dtype.Size() }

// Data returns the raw byte slice.
// WARNING: direct access to underlying memory.
func (r *Raw) Data() []byte { return r.buffer.data }

// Clone creates a shallow copy sharing the underlying buffer. The buffer is
// reference-counted and copied only when a kernel needs to write.
func (r *Raw) Clone() *Raw {
	r.buffer.addRef()
	return &Raw{
		buffer: r.buffer,
		length: r.length,
		dtype:  r.dtype,
		device: r.device,
	}
}

// DeepClone copies the bytes into a fresh unshared buffer.
func (r *Raw) DeepClone() *Raw {
	out := NewRaw(r.length, r.dtype, r.device)
	copy(out.buffer.data, r.buffer.data)
	return out
}

// Release decrements the reference count and deallocates at zero.
func (r *Raw) Release() {
	r.buffer.release()
}

// IsUnique reports whether this is the only reference to the buffer.
func (r *Raw) IsUnique() bool {
	return r.buffer.isUnique()
}

// WithDevice returns a Raw homed on dev. The underlying buffer is shared
// when no residency change is needed.
func (r *Raw) WithDevice(dev Device, rt Runtime) (*Raw, error) {
	if dev == r.device {
		return r.Clone(), nil
	}
	out := r.DeepClone()
	out.device = dev
	if dev == GPU {
		if err := out.EnsureResident(rt); err != nil {
			out.Release()
			return nil, err
		}
	}
	return out, nil
}

// EnsureResident uploads the host bytes to the device if the Raw is
// GPU-homed and no mirror exists yet.
func (r *Raw) EnsureResident(rt Runtime) error {
	if r.device != GPU {
		return nil
	}
	r.buffer.mu.Lock()
	defer r.buffer.mu.Unlock()
	if r.buffer.device != nil {
		return nil
	}
	if rt == nil {
		return fmt.Errorf("gpu device requested but no gpu runtime is available")
	}
	buf, err := rt.Upload(r.buffer.data)
	if err != nil {
		return fmt.Errorf("gpu upload: %w", err)
	}
	r.buffer.device = buf
	return nil
}

// AsBool interprets the data as []bool.
// Panics if the dtype is not Bool.
func (r *Raw) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("buffer dtype is %s, not bool", r.dtype))
	}
	return asSlice[bool](r)
}

// AsInt8 interprets the data as []int8.
func (r *Raw) AsInt8() []int8 {
	if r.dtype != Int8 {
		panic(fmt.Sprintf("buffer dtype is %s, not int8", r.dtype))
	}
	return asSlice[int8](r)
}

// AsInt16 interprets the data as []int16.
func (r *Raw) AsInt16() []int16 {
	if r.dtype != Int16 {
		panic(fmt.Sprintf("buffer dtype is %s, not int16", r.dtype))
	}
	return asSlice[int16](r)
}

// AsInt32 interprets the data as []int32.
func (r *Raw) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("buffer dtype is %s, not int32", r.dtype))
	}
	return asSlice[int32](r)
}

// AsInt64 interprets the data as []int64.
func (r *Raw) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("buffer dtype is %s, not int64", r.dtype))
	}
	return asSlice[int64](r)
}

// AsUint8 interprets the data as []uint8.
func (r *Raw) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint8", r.dtype))
	}
	return r.buffer.data
}

// AsUint16 interprets the data as []uint16.
func (r *Raw) AsUint16() []uint16 {
	if r.dtype != Uint16 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint16", r.dtype))
	}
	return asSlice[uint16](r)
}

// AsUint32 interprets the data as []uint32.
func (r *Raw) AsUint32() []uint32 {
	if r.dtype != Uint32 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint32", r.dtype))
	}
	return asSlice[uint32](r)
}

// AsUint64 interprets the data as []uint64.
func (r *Raw) AsUint64() []uint64 {
	if r.dtype != Uint64 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint64", r.dtype))
	}
	return asSlice[uint64](r)
}

// AsFloat32 interprets the data as []float32.
func (r *Raw) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("buffer dtype is %s, not float32", r.dtype))
	}
	return asSlice[float32](r)
}

// AsFloat64 interprets the data as []float64.
func (r *Raw) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float64", r.dtype))
	}
	return asSlice[float64](r)
}

// AsComplex64 interprets the data as []complex64.
func (r *Raw) AsComplex64() []complex64 {
	if r.dtype != Complex64 {
		panic(fmt.Sprintf("buffer dtype is %s, not complex64", r.dtype))
	}
	return asSlice[complex64](r)
}

// AsComplex128 interprets the data as []complex128.
func (r *Raw) AsComplex128() []complex128 {
	if r.dtype != Complex128 {
		panic(fmt.Sprintf("buffer dtype is %s, not complex128", r.dtype))
	}
	return asSlice[complex128](r)
}

func asSlice[T DType](r *Raw) []T {
	if r.length == 0 {
		return nil
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by Len()
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), r.length)
}

// Get returns element i as a Go value of the buffer's natural type.
func (r *Raw) Get(i int) any {
	switch r.dtype {
	case Bool:
		return r.AsBool()[i]
	case Int8:
		return r.AsInt8()[i]
	case Int16:
		return r.AsInt16()[i]
	case Int32:
		return r.AsInt32()[i]
	case Int64:
		return r.AsInt64()[i]
	case Uint8:
		return r.AsUint8()[i]
	case Uint16:
		return r.AsUint16()[i]
	case Uint32:
		return r.AsUint32()[i]
	case Uint64:
		return r.AsUint64()[i]
	case Float32:
		return r.AsFloat32()[i]
	case Float64:
		return r.AsFloat64()[i]
	case Complex64:
		return r.AsComplex64()[i]
	case Complex128:
		return r.AsComplex128()[i]
	default:
		panic("unknown data type")
	}
}

// Float64At returns element i widened to float64. Booleans read as 0 or 1;
// complex values panic.
func (r *Raw) Float64At(i int) float64 {
	switch r.dtype {
	case Bool:
		if r.AsBool()[i] {
			return 1
		}
		return 0
	case Int8:
		return float64(r.AsInt8()[i])
	case Int16:
		return float64(r.AsInt16()[i])
	case Int32:
		return float64(r.AsInt32()[i])
	case Int64:
		return float64(r.AsInt64()[i])
	case Uint8:
		return float64(r.AsUint8()[i])
	case Uint16:
		return float64(r.AsUint16()[i])
	case Uint32:
		return float64(r.AsUint32()[i])
	case Uint64:
		return float64(r.AsUint64()[i])
	case Float32:
		return float64(r.AsFloat32()[i])
	case Float64:
		return r.AsFloat64()[i]
	default:
		panic(fmt.Sprintf("cannot read %s element as float64", r.dtype))
	}
}

// Int64At returns element i widened to int64 without going through float,
// preserving integer values beyond 2^53.
func (r *Raw) Int64At(i int) int64 {
	switch r.dtype {
	case Bool:
		if r.AsBool()[i] {
			return 1
		}
		return 0
	case Int8:
		return int64(r.AsInt8()[i])
	case Int16:
		return int64(r.AsInt16()[i])
	case Int32:
		return int64(r.AsInt32()[i])
	case Int64:
		return r.AsInt64()[i]
	case Uint8:
		return int64(r.AsUint8()[i])
	case Uint16:
		return int64(r.AsUint16()[i])
	case Uint32:
		return int64(r.AsUint32()[i])
	case Uint64:
		return int64(r.AsUint64()[i])
	default:
		panic(fmt.Sprintf("cannot read %s element as int64", r.dtype))
	}
}

// Uint64At returns element i widened to uint64.
func (r *Raw) Uint64At(i int) uint64 {
	if r.dtype == Uint64 {
		return r.AsUint64()[i]
	}
	return uint64(r.Int64At(i))
}

// BoolAt returns element i as a truth value. Numeric elements are true when
// nonzero.
func (r *Raw) BoolAt(i int) bool {
	switch r.dtype {
	case Bool:
		return r.AsBool()[i]
	case Complex64, Complex128:
		return r.Complex128At(i) != 0
	case Uint64:
		return r.AsUint64()[i] != 0
	case Int64:
		return r.AsInt64()[i] != 0
	default:
		return r.Float64At(i) != 0
	}
}

// SetInt64 stores v into element i of an integer or boolean buffer.
func (r *Raw) SetInt64(i int, v int64) {
	switch r.dtype {
	case Bool:
		r.AsBool()[i] = v != 0
	case Int8:
		r.AsInt8()[i] = int8(v)
	case Int16:
		r.AsInt16()[i] = int16(v)
	case Int32:
		r.AsInt32()[i] = int32(v)
	case Int64:
		r.AsInt64()[i] = v
	case Uint8:
		r.AsUint8()[i] = uint8(v)
	case Uint16:
		r.AsUint16()[i] = uint16(v)
	case Uint32:
		r.AsUint32()[i] = uint32(v)
	case Uint64:
		r.AsUint64()[i] = uint64(v)
	default:
		r.SetFloat64(i, float64(v))
	}
}

// SetUint64 stores v into element i of an integer buffer.
func (r *Raw) SetUint64(i int, v uint64) {
	if r.dtype == Uint64 {
		r.AsUint64()[i] = v
		return
	}
	r.SetInt64(i, int64(v))
}

// SetBool stores a truth value into element i.
func (r *Raw) SetBool(i int, v bool) {
	if r.dtype == Bool {
		r.AsBool()[i] = v
		return
	}
	if v {
		r.SetInt64(i, 1)
	} else {
		r.SetInt64(i, 0)
	}
}

// Complex128At returns element i widened to complex128.
func (r *Raw) Complex128At(i int) complex128 {
	switch r.dtype {
	case Complex64:
		return complex128(r.AsComplex64()[i])
	case Complex128:
		return r.AsComplex128()[i]
	default:
		return complex(r.Float64At(i), 0)
	}
}

// SetFloat64 stores v into element i, narrowing to the buffer's dtype.
func (r *Raw) SetFloat64(i int, v float64) {
	switch r.dtype {
	case Bool:
		r.AsBool()[i] = v != 0
	case Int8:
		r.AsInt8()[i] = int8(v)
	case Int16:
		r.AsInt16()[i] = int16(v)
	case Int32:
		r.AsInt32()[i] = int32(v)
	case Int64:
		r.AsInt64()[i] = int64(v)
	case Uint8:
		r.AsUint8()[i] = uint8(v)
	case Uint16:
		r.AsUint16()[i] = uint16(v)
	case Uint32:
		r.AsUint32()[i] = uint32(v)
	case Uint64:
		r.AsUint64()[i] = uint64(v)
	case Float32:
		r.AsFloat32()[i] = float32(v)
	case Float64:
		r.AsFloat64()[i] = v
	case Complex64:
		r.AsComplex64()[i] = complex(float32(v), 0)
	case Complex128:
		r.AsComplex128()[i] = complex(v, 0)
	default:
		panic("unknown data type")
	}
}

// SetComplex128 stores v into element i. Non-complex buffers take the real
// part only when the imaginary part is zero.
func (r *Raw) SetComplex128(i int, v complex128) {
	switch r.dtype {
	case Complex64:
		r.AsComplex64()[i] = complex64(v)
	case Complex128:
		r.AsComplex128()[i] = v
	default:
		if imag(v) != 0 {
			panic(fmt.Sprintf("cannot store complex value into %s buffer", r.dtype))
		}
		r.SetFloat64(i, real(v))
	}
}

// Copy copies n elements from src starting at srcOff into r starting at
// dstOff. Both buffers must share a dtype.
func (r *Raw) Copy(dstOff int, src *Raw, srcOff, n int) {
	if r.dtype != src.dtype {
		panic(fmt.Sprintf("copy: dtype mismatch %s vs %s", r.dtype, src.dtype))
	}
	sz := r.dtype.Size()
	copy(r.buffer.data[dstOff*sz:(dstOff+n)*sz], src.buffer.data[srcOff*sz:(srcOff+n)*sz])
}

// Slice returns a new Raw holding a copy of elements [start, stop).
func (r *Raw) Slice(start, stop int) *Raw {
	out := NewRaw(stop-start, r.dtype, r.device)
	out.Copy(0, r, start, stop-start)
	return out
}

// FromSlice copies a typed Go slice into a fresh buffer.
func FromSlice[T DType](values []T, device Device) *Raw {
	var dummy T
	out := NewRaw(len(values), InferDataType(dummy), device)
	dst := asSlice[T](out)
	copy(dst, values)
	return out
}

// Equal reports whether two buffers hold identical bytes and metadata.
// NaNs compare by bit pattern here, not by IEEE rules.
func (r *Raw) Equal(other *Raw) bool {
	if r.dtype != other.dtype || r.length != other.length {
		return false
	}
	a, b := r.buffer.data, other.buffer.data
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

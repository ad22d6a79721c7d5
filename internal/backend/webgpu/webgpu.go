// Package webgpu provides GPU residency for array buffers through WebGPU.
// Uses github.com/cogentcore/webgpu for zero-CGO WebGPU bindings.
//
// Arrays homed on the GPU device keep their authoritative bytes on the
// host; this package uploads them into storage buffers and reads them back
// through a staging buffer when the host needs fresh bytes.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/ragged-data/ragged/internal/dense"
)

// Runtime owns the WebGPU instance, adapter, device and queue. It
// implements dense.Runtime.
type Runtime struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

var (
	initOnce sync.Once
	shared   *Runtime
	initErr  error
)

// Get returns the process-wide runtime, initializing it on first use.
// Returns an error when no GPU or native library is available.
func Get() (*Runtime, error) {
	initOnce.Do(func() {
		shared, initErr = New()
	})
	return shared, initErr
}

// New creates a runtime.
// Returns an error if WebGPU is not available or initialization fails.
func New() (rt *Runtime, err error) {
	// Recover from panic if the wgpu native library is not found.
	defer func() {
		if r := recover(); r != nil {
			rt = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Runtime{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    queue,
	}, nil
}

// Release frees the device, adapter and instance.
func (rt *Runtime) Release() {
	if rt.queue != nil {
		rt.queue.Release()
		rt.queue = nil
	}
	if rt.device != nil {
		rt.device.Release()
		rt.device = nil
	}
	if rt.adapter != nil {
		rt.adapter.Release()
		rt.adapter = nil
	}
	if rt.instance != nil {
		rt.instance.Release()
		rt.instance = nil
	}
}

// buffer wraps a storage buffer so it satisfies dense.Buffer.
type buffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

// Upload copies host bytes into a fresh storage buffer using
// MappedAtCreation. Zero-length data still gets a minimal buffer so every
// resident array has a handle.
func (rt *Runtime) Upload(data []byte) (dense.Buffer, error) {
	size := uint64(len(data))
	allocSize := size
	if allocSize == 0 {
		allocSize = 4
	}
	buf, err := rt.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:             allocSize,
		MappedAtCreation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create buffer: %w", err)
	}
	if size > 0 {
		mapped := buf.GetMappedRange(0, uint(size))
		copy(mapped, data)
	}
	buf.Unmap()
	return &buffer{buf: buf, size: size}, nil
}

// Download reads a storage buffer back into dst through a staging buffer,
// since storage buffers cannot be mapped directly.
func (rt *Runtime) Download(b dense.Buffer, dst []byte) error {
	gb, ok := b.(*buffer)
	if !ok {
		return fmt.Errorf("webgpu: foreign buffer type %T", b)
	}
	size := uint64(len(dst))
	if size == 0 {
		return nil
	}
	if size > gb.size {
		return fmt.Errorf("webgpu: read of %d bytes from %d-byte buffer", size, gb.size)
	}

	staging, err := rt.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	if err != nil {
		return fmt.Errorf("webgpu: create staging buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := rt.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	defer encoder.Release()
	if err := encoder.CopyBufferToBuffer(gb.buf, 0, staging, 0, size); err != nil {
		return fmt.Errorf("webgpu: copy to staging: %w", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish encoder: %w", err)
	}
	defer cmd.Release()
	rt.queue.Submit(cmd)

	var mapErr error
	done := false
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		done = true
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("webgpu: map staging buffer: status %v", status)
		}
	})
	if err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	for !done {
		rt.device.Poll(true, nil)
	}
	if mapErr != nil {
		return mapErr
	}
	defer staging.Unmap()

	mapped := staging.GetMappedRange(0, uint(size))
	copy(dst, mapped)
	return nil
}

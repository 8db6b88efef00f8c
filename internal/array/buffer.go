package array

import "sync/atomic"

// Buffer is a reference-counted backing allocation shared by every Array
// view constructed over it. Views never own the bytes exclusively: the
// allocation lives as long as the longest-lived holder.
type Buffer struct {
	data     []byte
	refCount atomic.Int32
}

// NewBuffer allocates a zeroed buffer of the given byte size with
// refCount = 1.
func NewBuffer(size int) *Buffer {
	buf := &Buffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// BufferFromBytes wraps an existing byte slice without copying.
// The caller must not resize the slice afterwards.
func BufferFromBytes(data []byte) *Buffer {
	buf := &Buffer{
		data: data,
	}
	buf.refCount.Store(1)
	return buf
}

// Len returns the allocation size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the raw backing bytes.
// WARNING: direct access to shared memory; mutations are visible through
// every view over this buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// addRef increments the reference count (for view construction).
func (b *Buffer) addRef() {
	b.refCount.Add(1)
}

// release decrements the reference count and drops the allocation when it
// reaches zero.
func (b *Buffer) release() {
	if b.refCount.Add(-1) == 0 {
		b.data = nil
	}
}

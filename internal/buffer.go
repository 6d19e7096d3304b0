package internal

import "sync"

// maxPooledBuffer is the largest capacity returned to the pool; anything
// bigger is left to the GC so one huge document does not pin memory.
const maxPooledBuffer = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 512)
		return &b
	},
}

// GetBuffer returns an empty byte slice from the pool.
func GetBuffer() *[]byte {
	b := bufferPool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// PutBuffer returns b to the pool.
func PutBuffer(b *[]byte) {
	if b == nil || cap(*b) > maxPooledBuffer {
		return
	}
	*b = (*b)[:0]
	bufferPool.Put(b)
}

package util

import "sync"

// RecvBufSize is the size of pooled receive buffers.  It matches the
// default buffer size of string receives so the common case never
// allocates.
const RecvBufSize = 1024

var recvPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, RecvBufSize)
		return &buf
	},
}

// GetBuf returns a buffer of exactly size bytes.  Sizes up to
// RecvBufSize come from a pool; larger requests are freshly allocated.
// Callers must hand the buffer back with [PutBuf].
func GetBuf(size int) *[]byte {
	if size > RecvBufSize {
		buf := make([]byte, size)
		return &buf
	}
	buf := recvPool.Get().(*[]byte)
	*buf = (*buf)[:size]
	return buf
}

// PutBuf returns a buffer obtained from [GetBuf].  Oversized buffers are
// dropped for the GC.
func PutBuf(buf *[]byte) {
	if buf == nil || cap(*buf) != RecvBufSize {
		return
	}
	*buf = (*buf)[:RecvBufSize]
	recvPool.Put(buf)
}

package eocd

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds an end-of-central-directory record with the given comment.
func record(comment []byte) []byte {
	rec := make([]byte, CoreSize, CoreSize+len(comment))
	copy(rec, signature)
	binary.LittleEndian.PutUint16(rec[commentLenOff:], uint16(len(comment)))
	return append(rec, comment...)
}

// place copies rec into stream at off.
func place(stream []byte, off int64, rec []byte) {
	copy(stream[off:], rec)
}

func TestScanFindsNearestTwoFirst(t *testing.T) {
	t.Parallel()

	stream := make([]byte, 500)
	place(stream, 100, record(nil))
	place(stream, 300, record(nil))
	place(stream, 478, record(nil))

	offs, err := Scan(bytes.NewReader(stream), int64(len(stream)))
	require.NoError(t, err)
	assert.Equal(t, []int64{478, 300}, offs)
}

func TestScanNone(t *testing.T) {
	t.Parallel()

	stream := bytes.Repeat([]byte{0xAA}, 1000)
	offs, err := Scan(bytes.NewReader(stream), int64(len(stream)))
	require.NoError(t, err)
	assert.Empty(t, offs)
}

func TestScanSingle(t *testing.T) {
	t.Parallel()

	stream := make([]byte, 200)
	place(stream, 178, record(nil))

	offs, err := Scan(bytes.NewReader(stream), int64(len(stream)))
	require.NoError(t, err)
	assert.Equal(t, []int64{178}, offs)
}

func TestScanStraddlingChunkBoundary(t *testing.T) {
	t.Parallel()

	// With this stream size the first chunk starts at offset 100. A
	// record two bytes below that straddles the boundary and must still
	// be found via the chunk overlap.
	stream := make([]byte, chunkSize+100)
	straddle := int64(98)
	place(stream, straddle, record(nil))
	trailing := int64(len(stream)) - CoreSize
	place(stream, trailing, record(nil))

	offs, err := Scan(bytes.NewReader(stream), int64(len(stream)))
	require.NoError(t, err)
	assert.Equal(t, []int64{trailing, straddle}, offs)
}

func TestScanIgnoresTruncatedRecord(t *testing.T) {
	t.Parallel()

	// Signature present, but the stream ends before the comment-length
	// field; the candidate does not count.
	stream := make([]byte, 100)
	place(stream, 20, record(nil))
	copy(stream[90:], signature)

	offs, err := Scan(bytes.NewReader(stream), int64(len(stream)))
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, offs)
}

func TestBoundary(t *testing.T) {
	t.Parallel()

	stream := make([]byte, 200)
	place(stream, 40, record([]byte("abc")))

	boundary, err := Boundary(bytes.NewReader(stream), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(40+CoreSize+3), boundary)
}

// eagerEOFSource returns io.EOF alongside a full read whenever the read
// ends exactly at the end of the stream, as io.ReaderAt permits.
type eagerEOFSource struct {
	data []byte
}

func (s *eagerEOFSource) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	if off+int64(n) == int64(len(s.data)) {
		return n, io.EOF
	}
	return n, nil
}

func TestScanAcceptsFullReadWithEOF(t *testing.T) {
	t.Parallel()

	stream := make([]byte, 300)
	place(stream, 100, record(nil))
	place(stream, 278, record(nil))

	src := &eagerEOFSource{data: stream}
	offs, err := Scan(src, int64(len(stream)))
	require.NoError(t, err)
	assert.Equal(t, []int64{278, 100}, offs)

	boundary, err := Boundary(src, 278)
	require.NoError(t, err)
	assert.Equal(t, int64(300), boundary)
}

// boundedSource serves a synthetic stream of zeros and records the largest
// single read it was asked for.
type boundedSource struct {
	size    int64
	maxRead int
}

func (s *boundedSource) ReadAt(p []byte, off int64) (int, error) {
	if len(p) > s.maxRead {
		s.maxRead = len(p)
	}
	clear(p)
	return len(p), nil
}

func TestScanMemoryBoundedOnLargeStream(t *testing.T) {
	t.Parallel()

	// A gigabyte-scale stream with no terminator records forces a full
	// backward scan; every read must stay within one chunk plus overlap.
	src := &boundedSource{size: 1 << 30}
	offs, err := Scan(src, src.size)
	require.NoError(t, err)
	assert.Empty(t, offs)
	assert.LessOrEqual(t, src.maxRead, chunkSize+overlap)
}

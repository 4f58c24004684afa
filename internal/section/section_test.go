package section

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderExposesOnlyRange(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefghij")
	r := NewReader(bytes.NewReader(data), 3, 8)

	assert.Equal(t, int64(5), r.Size())

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("defgh"), got)

	// Cursor is at the end of the range; the underlying stream has more
	// bytes, but the view reports end-of-data.
	n, err := r.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderReadAt(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefghij")
	r := NewReader(bytes.NewReader(data), 2, 9)

	buf := make([]byte, 3)
	n, err := r.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("def"), buf)

	// Clamped at the range end.
	buf = make([]byte, 10)
	n, err = r.ReadAt(buf, 5)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("hi"), buf[:n])

	_, err = r.ReadAt(buf, 7)
	assert.ErrorIs(t, err, io.EOF)

	_, err = r.ReadAt(buf, -1)
	assert.Error(t, err)
}

func TestReaderSeek(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefghij")
	r := NewReader(bytes.NewReader(data), 2, 8)

	pos, err := r.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	pos, err = r.Seek(1, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	pos, err = r.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("gh"), got)

	// Past the end is allowed, but reads yield end-of-data.
	pos, err = r.Seek(100, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(100), pos)
	n, err := r.Read(make([]byte, 1))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)

	// Negative positions are not.
	_, err = r.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}

// seekerOnly hides the ReaderAt of bytes.Reader so the adapter path is
// actually exercised.
type seekerOnly struct {
	io.ReadSeeker
}

func TestSeekerSourceInterleavedViews(t *testing.T) {
	t.Parallel()

	data := append(bytes.Repeat([]byte{'x'}, 100), bytes.Repeat([]byte{'y'}, 100)...)
	src, size, err := NewSeekerSource(seekerOnly{bytes.NewReader(data)})
	require.NoError(t, err)
	require.Equal(t, int64(200), size)

	front := NewReader(src, 0, 100)
	back := NewReader(src, 100, 200)

	// Alternate reads between the two views; each must reposition the
	// shared stream and stay inside its own range.
	buf := make([]byte, 10)
	for i := 0; i < 10; i++ {
		n, err := front.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{'x'}, n), buf[:n])

		n, err = back.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{'y'}, n), buf[:n])
	}

	_, err = front.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	_, err = back.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

// eagerEOFSeeker reports io.EOF together with the final bytes instead of
// on the Read after them; the io.Reader contract allows either.
type eagerEOFSeeker struct {
	r *bytes.Reader
}

func (e *eagerEOFSeeker) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == nil && e.r.Len() == 0 {
		err = io.EOF
	}
	return n, err
}

func (e *eagerEOFSeeker) Seek(offset int64, whence int) (int64, error) {
	return e.r.Seek(offset, whence)
}

func TestSeekerSourceFullReadAtEOF(t *testing.T) {
	t.Parallel()

	data := []byte("abcdefgh")
	src, size, err := NewSeekerSource(&eagerEOFSeeker{bytes.NewReader(data)})
	require.NoError(t, err)
	require.Equal(t, int64(8), size)

	// A ReadAt ending exactly at end of stream is a full, successful read
	// even when the underlying Read delivered io.EOF with the bytes.
	buf := make([]byte, 4)
	n, err := src.ReadAt(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte("efgh"), buf)

	// A genuinely short read still reports io.EOF.
	buf = make([]byte, 4)
	n, err = src.ReadAt(buf, 6)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
}

func TestSeekerSourceShortTail(t *testing.T) {
	t.Parallel()

	src, size, err := NewSeekerSource(seekerOnly{bytes.NewReader([]byte("abc"))})
	require.NoError(t, err)
	require.Equal(t, int64(3), size)

	buf := make([]byte, 5)
	n, err := src.ReadAt(buf, 1)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("bc"), buf[:n])
}

func TestWriterTracksGrowth(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer
	w := NewWriter(&sink)
	assert.Equal(t, int64(0), w.Size())

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), w.Size())

	_, err = w.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), w.Size())
	assert.Equal(t, "hello world", sink.String())
}

// Package section provides range-restricted views over byte streams.
//
// A Reader exposes a contiguous sub-range of a random-access source as if it
// were a complete, standalone stream. A Writer tracks an append-only output
// range as it grows. SeekerSource adapts seek-only streams to random access.
package section

import (
	"errors"
	"io"
)

var errNegativeOffset = errors.New("section: negative offset")

// Reader exposes the byte range [start, end) of an underlying io.ReaderAt as
// an independent stream. All offsets observed through the Reader are relative
// to the start of the range; bytes outside the range are never returned. The
// range is fixed at construction.
//
// Reader implements io.Reader, io.Seeker, and io.ReaderAt. Because the
// underlying source is an io.ReaderAt, two Readers over the same source can
// interleave reads without repositioning each other.
type Reader struct {
	src   io.ReaderAt
	start int64
	size  int64
	off   int64 // read cursor, relative to start
}

// NewReader creates a Reader over [start, end) of src.
// The caller guarantees 0 <= start <= end <= len(src).
func NewReader(src io.ReaderAt, start, end int64) *Reader {
	return &Reader{src: src, start: start, size: end - start}
}

// Size returns the length of the range in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// Read reads from the current cursor, advancing it. Once the cursor reaches
// the end of the range, Read returns io.EOF even if the underlying source has
// more bytes beyond.
func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= r.size {
		return 0, io.EOF
	}
	n, err := r.ReadAt(p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// ReadAt reads len(p) bytes starting at the given range-relative offset.
// Requests are clamped at the end of the range; a clamped read returns the
// available bytes together with io.EOF.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if off >= r.size {
		return 0, io.EOF
	}
	if max := r.size - off; int64(len(p)) > max {
		n, err := r.src.ReadAt(p[:max], r.start+off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return r.src.ReadAt(p, r.start+off)
}

// Seek moves the cursor relative to the start, current position, or end of
// the range. Seeking past the end is permitted; a subsequent Read returns
// io.EOF. Seeking to a negative position is an error.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.off + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return 0, errors.New("section: invalid whence")
	}
	if abs < 0 {
		return 0, errNegativeOffset
	}
	r.off = abs
	return abs, nil
}

// SeekerSource adapts an io.ReadSeeker to io.ReaderAt.
//
// The underlying stream's position is shared mutable state, so every ReadAt
// fully repositions the stream before reading. This keeps interleaved use by
// multiple Readers over the same SeekerSource correct, but it is not safe for
// concurrent use without external synchronization.
type SeekerSource struct {
	rs io.ReadSeeker
}

// NewSeekerSource wraps rs and reports its total length, determined by
// seeking to the end.
func NewSeekerSource(rs io.ReadSeeker) (*SeekerSource, int64, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, err
	}
	return &SeekerSource{rs: rs}, size, nil
}

// ReadAt implements io.ReaderAt. A Read that delivers the final bytes of
// the stream together with io.EOF still counts as a full read.
func (s *SeekerSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		m, err := s.rs.Read(p[n:])
		n += m
		if err != nil {
			if err == io.EOF && n == len(p) {
				err = nil
			}
			return n, err
		}
	}
	return n, nil
}

// Writer counts bytes as they are appended to an underlying sink. The range
// starts empty and grows with every write; unlike Reader, the end is not
// fixed at construction. This is the policy for building a fresh archive,
// where the final extent is only known once the archive is finalized.
type Writer struct {
	w io.Writer
	n int64
}

// NewWriter creates a Writer appending to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}

// Size returns the number of bytes written so far.
func (w *Writer) Size() int64 {
	return w.n
}

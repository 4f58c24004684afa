// Package eocd locates zip end-of-central-directory records inside an opaque
// byte stream by scanning backward from the end in bounded chunks.
package eocd

import (
	"bytes"
	"encoding/binary"
	"io"
)

const (
	// signature marks the start of an end-of-central-directory record.
	signature = "PK\x05\x06"

	// CoreSize is the fixed length of the record, excluding the trailing
	// variable-length comment.
	CoreSize = 22

	// commentLenOff is the offset of the little-endian uint16 comment
	// length within the record.
	commentLenOff = 20

	// chunkSize bounds how much of the stream is held in memory at once
	// during a scan.
	chunkSize = 64 << 10

	// overlap extends each chunk forward into the previously scanned
	// region so a record straddling a chunk boundary is never missed.
	overlap = CoreSize - 1
)

// Scan returns the absolute offsets of up to the two end-of-central-directory
// records nearest the end of the stream, nearest first. It reads the stream
// backward in fixed-size chunks, so memory use is bounded by the chunk size
// regardless of stream length.
//
// A candidate only counts when enough bytes follow it for the comment-length
// field to be read.
func Scan(r io.ReaderAt, size int64) ([]int64, error) {
	var found []int64
	buf := make([]byte, 0, chunkSize+overlap)

	searchEnd := size
	for searchEnd > 0 && len(found) < 2 {
		start := searchEnd - chunkSize
		if start < 0 {
			start = 0
		}
		end := searchEnd + overlap
		if end > size {
			end = size
		}
		buf = buf[:end-start]
		if err := readFull(r, buf, start); err != nil {
			return nil, err
		}

		// Walk candidates back to front. Offsets at or past searchEnd
		// were already covered by the previous chunk.
		for i := len(buf); len(found) < 2; {
			j := bytes.LastIndex(buf[:i], []byte(signature))
			if j < 0 {
				break
			}
			i = j
			off := start + int64(j)
			if off >= searchEnd {
				continue
			}
			if off+CoreSize > size {
				continue
			}
			found = append(found, off)
		}

		searchEnd = start
	}
	return found, nil
}

// Boundary computes where the archive terminated by the record at off ends:
// the record offset plus its fixed core plus the trailing comment, whose
// length is read from the stream.
func Boundary(r io.ReaderAt, off int64) (int64, error) {
	var lenBuf [2]byte
	if err := readFull(r, lenBuf[:], off+commentLenOff); err != nil {
		return 0, err
	}
	return off + CoreSize + int64(binary.LittleEndian.Uint16(lenBuf[:])), nil
}

// readFull reads len(p) bytes at off. The io.ReaderAt contract permits a
// full read to arrive together with io.EOF at end of stream; that is not
// a failure.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return err
}

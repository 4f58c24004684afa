package cupx

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/gliderkit/cupx/internal/eocd"
	"github.com/gliderkit/cupx/internal/section"
)

// Fixed internal layout of a CUPX container.
const (
	// PicturePrefix is the entry-name prefix for pictures in the
	// leading archive. Matching is case-insensitive.
	PicturePrefix = "pics/"

	// RecordEntryName is the single entry of the trailing archive.
	RecordEntryName = "POINTS.CUP"
)

// File provides access to an opened CUPX container: the parsed waypoint
// record plus lazy access to its pictures.
//
// File is not safe for concurrent use. The underlying source is retained
// for the File's lifetime so pictures can be read repeatedly without
// re-scanning.
type File struct {
	src    io.ReaderAt
	size   int64
	record Record
	pics   *zip.Reader // nil when the container has no pictures archive
	closer io.Closer   // set when the File owns the underlying handle
}

// New opens a CUPX container from a random-access source of the given size.
//
// The returned warnings report recoverable findings such as a missing
// pictures archive; they accompany a successful open and never cause one
// to fail. The source must stay open for the lifetime of the File.
func New(src io.ReaderAt, size int64, opts ...OpenOption) (*File, []Warning, error) {
	cfg := newOpenConfig(opts)
	return open(src, size, &cfg)
}

// NewReadSeeker opens a CUPX container from a seek-only stream.
//
// The stream's position becomes shared mutable state between the two archive
// views, so each read repositions it first; see [New] for sources that
// support true random access.
func NewReadSeeker(rs io.ReadSeeker, opts ...OpenOption) (*File, []Warning, error) {
	src, size, err := section.NewSeekerSource(rs)
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: sizing stream: %w", err)
	}
	cfg := newOpenConfig(opts)
	return open(src, size, &cfg)
}

// open locates the boundary between the two archives, parses the record out
// of the trailing one, and indexes the leading one when present.
func open(src io.ReaderAt, size int64, cfg *openConfig) (*File, []Warning, error) {
	offs, err := eocd.Scan(src, size)
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: scanning for archive boundary: %w", err)
	}

	var warnings []Warning
	var split int64
	switch len(offs) {
	case 0:
		return nil, nil, ErrNotCupx
	case 1:
		// Single archive: the whole stream is the record archive.
		warnings = append(warnings, Warning{
			Code:    WarnNoPictures,
			Message: "container has no pictures archive",
		})
	default:
		split, err = eocd.Boundary(src, offs[1])
		if err != nil {
			return nil, nil, fmt.Errorf("cupx: reading terminator record: %w", err)
		}
		if split <= 0 || split >= offs[0] {
			return nil, nil, fmt.Errorf("%w: boundary %d vs trailing terminator at %d", ErrMalformed, split, offs[0])
		}
	}
	cfg.log().Debug("located archive boundary", "split", split, "size", size, "terminators", len(offs))

	points := section.NewReader(src, split, size)
	trailing, err := zip.NewReader(points, points.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: opening record archive: %w", err)
	}
	recData, err := readRecordEntry(trailing)
	if err != nil {
		return nil, nil, err
	}
	record, recWarnings, err := cfg.codec.Decode(recData, cfg.encoding)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, recWarnings...)

	var pics *zip.Reader
	if split > 0 {
		leading := section.NewReader(src, 0, split)
		pics, err = zip.NewReader(leading, leading.Size())
		if err != nil {
			return nil, nil, fmt.Errorf("cupx: opening pictures archive: %w", err)
		}
	}

	return &File{src: src, size: size, record: record, pics: pics}, warnings, nil
}

// readRecordEntry extracts the record bytes from the trailing archive.
func readRecordEntry(r *zip.Reader) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != RecordEntryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cupx: opening record entry: %w", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("cupx: reading record entry: %w", err)
		}
		return data, nil
	}
	return nil, ErrRecordNotFound
}

// Record returns the parsed waypoint record. Its concrete type is decided
// by the codec the container was opened with.
func (f *File) Record() Record {
	return f.record
}

// PictureNames returns the names of all pictures, in indexed order and
// without the internal prefix. The slice is empty when the container has
// no pictures archive.
func (f *File) PictureNames() []string {
	if f.pics == nil {
		return nil
	}
	names := make([]string, 0, len(f.pics.File))
	for _, zf := range f.pics.File {
		if name, ok := pictureName(zf.Name); ok {
			names = append(names, name)
		}
	}
	return names
}

// OpenPicture returns a reader for the named picture's decompressed bytes.
// The name is matched case-insensitively and must not include the internal
// prefix. Decompression happens as the returned reader is consumed.
func (f *File) OpenPicture(name string) (io.ReadCloser, error) {
	if f.pics == nil {
		return nil, fmt.Errorf("%w: %q", ErrPictureNotFound, name)
	}
	for _, zf := range f.pics.File {
		rest, ok := pictureName(zf.Name)
		if !ok || !strings.EqualFold(rest, name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("cupx: opening picture %q: %w", name, err)
		}
		return rc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPictureNotFound, name)
}

// ReadPicture reads the named picture in full.
func (f *File) ReadPicture(name string) ([]byte, error) {
	rc, err := f.OpenPicture(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("cupx: reading picture %q: %w", name, err)
	}
	return data, nil
}

// Size returns the total container size in bytes.
func (f *File) Size() int64 {
	return f.size
}

// Close releases the underlying handle when the File owns one, as with
// [Open]. For a File over a caller-provided source it is a no-op.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// pictureName strips the internal prefix from a leading-archive entry name,
// matching the prefix case-insensitively. Entries outside the prefix (and
// the bare prefix directory entry) are not pictures.
func pictureName(entry string) (string, bool) {
	if len(entry) <= len(PicturePrefix) {
		return "", false
	}
	if !strings.EqualFold(entry[:len(PicturePrefix)], PicturePrefix) {
		return "", false
	}
	return entry[len(PicturePrefix):], true
}

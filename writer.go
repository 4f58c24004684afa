package cupx

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/gliderkit/cupx/internal/section"
)

// PictureSource supplies a picture's bytes at write time: either an
// in-memory buffer or a file streamed from disk.
type PictureSource struct {
	data []byte
	path string
}

// PictureBytes sources a picture from an in-memory buffer. The buffer must
// not change until the container is written.
func PictureBytes(data []byte) PictureSource {
	return PictureSource{data: data}
}

// PictureFile sources a picture from the file at path. The file is opened
// and streamed when the container is written, never buffered in full.
func PictureFile(path string) PictureSource {
	return PictureSource{path: path}
}

// copyTo writes the picture bytes to w.
func (s PictureSource) copyTo(w io.Writer) error {
	if s.path != "" {
		f, err := os.Open(s.path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	}
	_, err := w.Write(s.data)
	return err
}

// Writer builds a CUPX container from a waypoint record plus picture
// sources. Adding a picture under an existing name replaces the previous
// source; insertion order is otherwise preserved in the output.
//
// A Writer holds no resources between calls; the terminal write calls
// leave it intact, so the same builder may be written more than once.
type Writer struct {
	record Record
	names  []string
	pics   map[string]PictureSource
	codec  RecordCodec
	level  int
	logger *slog.Logger
}

// NewWriter creates a Writer for the given record.
func NewWriter(record Record, opts ...WriterOption) *Writer {
	w := &Writer{
		record: record,
		pics:   make(map[string]PictureSource),
		codec:  RawCodec{},
		level:  flate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Writer) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w.logger
}

// AddPicture adds a picture under name, without the internal prefix.
// Adding a name twice keeps the last source. Returns w for chaining.
func (w *Writer) AddPicture(name string, src PictureSource) *Writer {
	if _, ok := w.pics[name]; !ok {
		w.names = append(w.names, name)
	}
	w.pics[name] = src
	return w
}

// Write emits the container to dst: the pictures archive first, the record
// archive immediately after, matching the layout Open expects. When no
// pictures were added, only the record archive is written.
//
// All picture names are validated before any output byte is produced:
// empty names and names containing a path separator fail with
// [ErrInvalidPictureName].
func (w *Writer) Write(dst io.Writer) error {
	for _, name := range w.names {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidPictureName, name)
		}
	}

	recData, err := w.codec.Encode(w.record)
	if err != nil {
		return fmt.Errorf("cupx: encoding record: %w", err)
	}

	out := section.NewWriter(dst)
	if len(w.names) > 0 {
		if err := w.writePictures(out); err != nil {
			return err
		}
	}
	picturesSize := out.Size()

	// The record archive is small text; building it in memory avoids a
	// second pass over the sink for its central directory.
	var buf bytes.Buffer
	points := zip.NewWriter(&buf)
	points.RegisterCompressor(zip.Deflate, w.newCompressor())
	entry, err := points.Create(RecordEntryName)
	if err != nil {
		return fmt.Errorf("cupx: creating record entry: %w", err)
	}
	if _, err := entry.Write(recData); err != nil {
		return fmt.Errorf("cupx: writing record entry: %w", err)
	}
	if err := points.Close(); err != nil {
		return fmt.Errorf("cupx: finalizing record archive: %w", err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("cupx: writing record archive: %w", err)
	}

	w.log().Debug("container written",
		"pictures", len(w.names),
		"pictures_bytes", picturesSize,
		"record_bytes", buf.Len())
	return nil
}

// writePictures streams the pictures archive straight to the sink.
func (w *Writer) writePictures(out io.Writer) error {
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, w.newCompressor())
	for _, name := range w.names {
		entry, err := zw.Create(PicturePrefix + name)
		if err != nil {
			return fmt.Errorf("cupx: creating picture entry %q: %w", name, err)
		}
		if err := w.pics[name].copyTo(entry); err != nil {
			return fmt.Errorf("cupx: writing picture %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("cupx: finalizing pictures archive: %w", err)
	}
	return nil
}

// newCompressor returns a deflate compressor at the configured level.
func (w *Writer) newCompressor() zip.Compressor {
	level := w.level
	return func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	}
}

// WriteFile writes the container to a new file at path.
func (w *Writer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cupx: create container: %w", err)
	}
	if err := w.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cupx: close container: %w", err)
	}
	return nil
}

// Bytes writes the container to a fresh in-memory buffer.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package cupx

import (
	"fmt"
	"os"
)

// Open opens and parses the CUPX container at path.
//
// The returned File owns the file handle; Close releases it.
func Open(path string, opts ...OpenOption) (*File, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: open container: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("cupx: stat container: %w", err)
	}

	file, warnings, err := New(f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	file.closer = f
	return file, warnings, nil
}

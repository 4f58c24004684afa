package cupx

import "errors"

// Sentinel errors returned by the package. All are fatal: the operation that
// reports one produced nothing usable. Recoverable findings are reported as
// [Warning] values instead.
var (
	// ErrNotCupx is returned when no zip end-of-central-directory record
	// exists in the stream, meaning it is not a CUPX container at all.
	ErrNotCupx = errors.New("cupx: could not find a zip archive in stream")

	// ErrMalformed is returned when the boundary between the two archives
	// computes to a position outside the stream or past the trailing
	// archive's terminator record.
	ErrMalformed = errors.New("cupx: malformed archive boundary")

	// ErrRecordNotFound is returned when the trailing archive does not
	// contain the waypoint record entry.
	ErrRecordNotFound = errors.New("cupx: record entry not found")

	// ErrPictureNotFound is returned when a requested picture does not
	// exist, or when the container has no pictures archive.
	ErrPictureNotFound = errors.New("cupx: picture not found")

	// ErrInvalidPictureName is returned by the writer for picture names
	// that are empty or contain a path separator.
	ErrInvalidPictureName = errors.New("cupx: invalid picture name")
)

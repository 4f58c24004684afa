package cupx

import (
	"fmt"
	"log/slog"
)

// WarningCode classifies a non-fatal finding.
type WarningCode uint8

const (
	// WarnNoPictures indicates the container holds only the record
	// archive; there are no pictures.
	WarnNoPictures WarningCode = iota + 1

	// WarnRecordIssue indicates a record codec recovered from a problem
	// in the record text. The built-in [RawCodec] never interprets the
	// text and so never reports it; the code exists for [RecordCodec]
	// implementations that parse the record grammar, with [Warning.Line]
	// locating the finding.
	WarnRecordIssue

	// WarnEncodingGuess indicates the record text carried no byte-order
	// mark and its encoding was guessed from content.
	WarnEncodingGuess
)

// String returns the code's name.
func (c WarningCode) String() string {
	switch c {
	case WarnNoPictures:
		return "no-pictures"
	case WarnRecordIssue:
		return "record-issue"
	case WarnEncodingGuess:
		return "encoding-guess"
	default:
		return fmt.Sprintf("warning(%d)", uint8(c))
	}
}

// Warning is a non-fatal finding reported alongside a successful result.
// Warnings never abort an operation; callers decide whether to treat them
// as failures.
type Warning struct {
	Code    WarningCode
	Message string

	// Line is the 1-based line in the record text the finding refers to,
	// or 0 when not applicable.
	Line int
}

// String formats the warning for logs and CLI output.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", w.Code, w.Message, w.Line)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

var _ slog.LogValuer = Warning{}

// LogValue implements slog.LogValuer so warnings log as structured records.
func (w Warning) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", w.Code.String()),
		slog.String("message", w.Message),
	}
	if w.Line > 0 {
		attrs = append(attrs, slog.Int("line", w.Line))
	}
	return slog.GroupValue(attrs...)
}

package cupx

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding identifies the text encoding of the waypoint record.
type Encoding uint8

const (
	// EncodingAuto detects the encoding from the record bytes: a UTF-8
	// byte-order mark wins, otherwise valid UTF-8 is assumed UTF-8 and
	// anything else Windows-1252.
	EncodingAuto Encoding = iota

	// EncodingUTF8 treats the record text as UTF-8.
	EncodingUTF8

	// EncodingWindows1252 treats the record text as Windows-1252, the
	// legacy encoding of CUP files.
	EncodingWindows1252
)

// String returns the encoding's name.
func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingUTF8:
		return "utf-8"
	case EncodingWindows1252:
		return "windows-1252"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// Record is the waypoint record held in the trailing archive. Its concrete
// type is whatever the [RecordCodec] in use produces; the default [RawCodec]
// produces *[RawRecord].
type Record any

// RecordCodec converts the waypoint record between its stored byte form and
// a parsed representation. The container core never interprets record bytes
// itself; implementations define the record grammar.
//
// Decode receives the raw entry bytes and the caller's encoding choice
// (EncodingAuto when none was given) and may report recoverable findings as
// warnings. Encode produces the bytes stored in a freshly written container.
type RecordCodec interface {
	Decode(data []byte, enc Encoding) (Record, []Warning, error)
	Encode(rec Record) ([]byte, error)
}

// RawRecord is the record representation produced by [RawCodec]: the record
// text as UTF-8 bytes plus the encoding it was stored in.
type RawRecord struct {
	Text     []byte
	Encoding Encoding
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RawCodec passes record bytes through untouched apart from text encoding:
// it detects or applies the stored encoding and exposes the text as UTF-8.
// It is the default codec; use it when the record grammar is handled
// elsewhere or not at all.
type RawCodec struct{}

// Decode implements [RecordCodec].
func (RawCodec) Decode(data []byte, enc Encoding) (Record, []Warning, error) {
	var warnings []Warning
	if enc == EncodingAuto {
		switch {
		case bytes.HasPrefix(data, utf8BOM):
			data = data[len(utf8BOM):]
			enc = EncodingUTF8
		case utf8.Valid(data):
			enc = EncodingUTF8
			if !isASCII(data) {
				warnings = append(warnings, Warning{
					Code:    WarnEncodingGuess,
					Message: "no byte-order mark; assuming UTF-8",
				})
			}
		default:
			enc = EncodingWindows1252
			warnings = append(warnings, Warning{
				Code:    WarnEncodingGuess,
				Message: "record text is not valid UTF-8; assuming Windows-1252",
			})
		}
	}

	text := bytes.Clone(data)
	if enc == EncodingWindows1252 {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, nil, fmt.Errorf("cupx: decoding record text: %w", err)
		}
		text = decoded
	}
	return &RawRecord{Text: text, Encoding: enc}, warnings, nil
}

// Encode implements [RecordCodec]. Records marked Windows-1252 are encoded
// back to that charmap; everything else is stored as UTF-8.
func (RawCodec) Encode(rec Record) ([]byte, error) {
	raw, ok := rec.(*RawRecord)
	if !ok {
		return nil, fmt.Errorf("cupx: raw codec cannot encode record of type %T", rec)
	}
	if raw.Encoding == EncodingWindows1252 {
		encoded, err := charmap.Windows1252.NewEncoder().Bytes(raw.Text)
		if err != nil {
			return nil, fmt.Errorf("cupx: encoding record text: %w", err)
		}
		return encoded, nil
	}
	return raw.Text, nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

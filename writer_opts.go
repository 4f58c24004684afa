package cupx

import "log/slog"

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WriteWithCompressionLevel sets the deflate level for picture and record
// entries. Levels follow the flate package: 0 stores entries uncompressed,
// 9 compresses hardest. The default is the flate default level.
func WriteWithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// WriteWithCodec sets the codec used to serialize the record. The default
// is [RawCodec], which expects a *[RawRecord].
func WriteWithCodec(codec RecordCodec) WriterOption {
	return func(w *Writer) {
		w.codec = codec
	}
}

// WriteWithLogger enables debug logging during writes. By default nothing
// is logged.
func WriteWithLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

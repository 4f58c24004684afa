// Package cupx reads and writes CUPX waypoint containers.
//
// A CUPX container is two independent zip archives concatenated into a
// single byte stream: a leading archive holding picture assets under a
// "pics/" prefix, and a trailing archive holding exactly one waypoint
// record at the fixed name "POINTS.CUP". The package locates the boundary
// between the two archives with bounded memory, regardless of file size,
// and gives random access to each half without loading the whole file.
//
// # Reading
//
// Open a container and access its record and pictures:
//
//	f, warnings, err := cupx.Open("waypoints.cupx")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	for _, w := range warnings {
//	    log.Println(w)
//	}
//	rec := f.Record().(*cupx.RawRecord)
//	data, err := f.ReadPicture("airport.jpg")
//
// Picture payloads are decompressed lazily, per access; opening the
// container only indexes them.
//
// # Writing
//
// Build a container from a record plus picture sources:
//
//	w := cupx.NewWriter(rec)
//	w.AddPicture("a.jpg", cupx.PictureBytes(data))
//	w.AddPicture("b.jpg", cupx.PictureFile("images/b.jpg"))
//	err := w.WriteFile("out.cupx")
//
// # Diagnostics
//
// Fatal conditions surface as errors; recoverable findings (a missing
// pictures archive, record parse issues) are returned as a [Warning] slice
// alongside the successful result and never abort the operation.
//
// The record grammar itself is out of scope: record bytes pass through a
// [RecordCodec], and the default [RawCodec] only handles text encoding.
// A full CUP parser plugs in through the same interface.
//
// A [File] is not safe for concurrent use; callers sharing one across
// goroutines must serialize access externally.
package cupx

package offsetmap

import (
	"fmt"
	"strings"
)

// Recorder builds a Map while a serializer produces its output, so the
// serializer itself declares which spans are verbatim leaf content and
// which are structural syntax. No searching is involved, which removes
// all ambiguity from repeated text.
//
// Spans must arrive in increasing structural order; an out-of-order span
// is reported through the warn callback and dropped.
type Recorder struct {
	warn func(string)

	out        strings.Builder
	m          Map
	lastStruct int
}

// NewRecorder creates a recorder. warn may be nil.
func NewRecorder(warn func(string)) *Recorder {
	return &Recorder{warn: warn}
}

// Mapped appends text that is verbatim content of the leaf occupying
// structural positions [structStart, structStart+len(text)).
func (r *Recorder) Mapped(structStart int, text string) {
	if text == "" {
		return
	}
	if structStart < r.lastStruct {
		if r.warn != nil {
			r.warn(fmt.Sprintf(
				"offsetmap: recorded span out of order (struct %d after %d); dropped",
				structStart, r.lastStruct))
		}
		r.out.WriteString(text)
		return
	}
	start := r.out.Len()
	r.out.WriteString(text)
	r.m.Segments = append(r.m.Segments, Segment{
		StructStart: structStart,
		StructEnd:   structStart + len(text),
		TextStart:   start,
		TextEnd:     start + len(text),
	})
	r.lastStruct = structStart + len(text)
}

// Unmapped appends structural syntax that corresponds to no leaf content.
func (r *Recorder) Unmapped(text string) {
	r.out.WriteString(text)
}

// Finish returns the serialized text and the completed map.
func (r *Recorder) Finish() (string, *Map) {
	r.m.TextLength = r.out.Len()
	return r.out.String(), &r.m
}

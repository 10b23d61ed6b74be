/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: location.go
Description: Source location structure for the Akaylee Instrument pass. Carries
the file and line a basic block was compiled from, including the inlined-at
chain produced when the block was inlined from another location.
*/

package ir

// Location is a source position attached to a basic block. A block inlined
// from elsewhere carries the inlining chain in InlinedAt; the chain ends at
// the outermost call site.
type Location struct {
	File      string    `json:"file"`                 // Source file name, may be a full path
	Line      int       `json:"line"`                 // Line number within File
	InlinedAt *Location `json:"inlined_at,omitempty"` // Call site this location was inlined from
}

// Filename resolves the location's file name. An empty file name falls back
// to the inlined-at chain; the result is "" only when no link of the chain
// carries a file name.
func (l *Location) Filename() string {
	for loc := l; loc != nil; loc = loc.InlinedAt {
		if loc.File != "" {
			return loc.File
		}
	}
	return ""
}

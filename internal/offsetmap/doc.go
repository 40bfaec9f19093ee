// Package offsetmap aligns the leaves of a structured document with the
// text produced by serializing it, and answers position queries in both
// directions.
//
// A Map is an ordered list of segments, each tying a structural position
// range to a text offset range. Segments are non-overlapping and strictly
// increasing in both coordinate spaces; leaves whose text cannot be
// located leave a coverage gap and are counted, not failed.
//
// Positions use the document address scheme from package doctree: the
// space starts at 0 before the root's first child, container boundaries
// cost one unit each, and leaf text costs its length.
package offsetmap

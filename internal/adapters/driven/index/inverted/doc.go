// Package inverted implements the native search index: an inverted index
// over skill names with roaring bitmap postings, prefix lookups over a
// sorted vocabulary and bounded edit-distance fuzzy matching.
//
// Indexes are immutable once built and can be encoded to a JSON document
// and loaded back without re-tokenizing names.
package inverted

// Package normalisers provides implementations of the DocumentSource
// interface for various file formats. Each source knows how to decode one
// family of formats into plain text with document metadata.
package normalisers

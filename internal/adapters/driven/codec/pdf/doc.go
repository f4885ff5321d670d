// Package pdf implements the document codec on top of pdfcpu.
//
// Decoding reads and validates the whole file into a pdfcpu context.
// Rotations are written as an explicit /Rotate entry on every page
// dictionary, replacing both the page's own value and anything it
// inherits from the page tree.
package pdf

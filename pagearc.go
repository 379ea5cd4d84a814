// Package pagearc turns rendered web pages into archival markdown documents.
// It fetches rendered HTML, converts it to markdown, strips navigation chrome
// and duplicated in-page tables of contents, and writes the result to disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, htmltomarkdown/, sqlite/).
// The core algorithms live in retry/ and normalize/.
package pagearc

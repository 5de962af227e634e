// Package ingest discovers report files on the local filesystem.
package ingest

// FileResult is the per-file scan outcome.
type FileResult struct {
	Path   string
	Ext    string
	Format string // constants.PDF | IMAGE | XLSX
	Size   int64
	Err    string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

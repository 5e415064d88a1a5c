// Package scanner discovers the files an update run should touch.
//
// The scanner walks a directory tree through filesystem.FileSystemProvider,
// keeps regular files whose lower-cased extension is in the configured set,
// and returns their paths in traversal order. Unreadable sub-paths are logged
// and skipped; only a root that cannot be opened fails the scan.
package scanner

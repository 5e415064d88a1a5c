// Package files groups the file access sub-packages.
//
//   - filesystem: filesystem abstraction with OS and in-memory implementations
//   - scanner: discovery of files to update by extension
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/linkupdater/internal/files/filesystem"
//	    "github.com/vvka-141/linkupdater/internal/files/scanner"
//	)
//
//	fsProvider := filesystem.NewOSFileSystem()
//	fileScanner := scanner.NewScannerWithFS(fsProvider, logger)
//	paths, err := fileScanner.FindTargets("./site", []string{".html", ".htm"})
package files

// Package checksum hashes file content so backups can be verified before the
// original is overwritten.
//
// # Example Usage
//
//	calculator := checksum.New()
//	if !calculator.Match(original, backup) {
//	    // refuse to overwrite
//	}
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum

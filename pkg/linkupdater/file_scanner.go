package linkupdater

// FileScanner discovers the files an update run should process.
type FileScanner interface {
	// FindTargets recursively lists regular files under root whose
	// lower-cased extension is in extensions, in traversal order.
	FindTargets(root string, extensions []string) ([]string, error)
}

package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// memoryFile implements File interface for in-memory files
type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    *memoryFileInfo
	target  string // absolute link target; empty for dangling links
	fs      *MemoryFileSystem
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.fs.ReadFile(f.absPath)
}

// memoryDirectory implements Directory interface for in-memory filesystem
type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	entries := d.fs.getEntriesUnder(d.absPath)

	// Sort by path for deterministic order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].absPath < entries[j].absPath
	})

	for _, entry := range entries {
		var callbackErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					callbackErr = fmt.Errorf("walk callback panicked at %s: %v", entry.absPath, r)
				}
			}()

			if err, failing := d.fs.walkErrs[entry.absPath]; failing {
				callbackErr = fn(nil, &fs.PathError{Op: "lstat", Path: entry.absPath, Err: err})
				return
			}
			callbackErr = fn(entry, nil)
		}()

		if callbackErr != nil {
			return callbackErr
		}
	}

	return nil
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Not safe for concurrent use.
type MemoryFileSystem struct {
	files     map[string]*memoryFile // map of absolute path -> file
	root      string
	readErrs  map[string]error
	writeErrs map[string]error
	walkErrs  map[string]error
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		files:     make(map[string]*memoryFile),
		root:      root,
		readErrs:  make(map[string]error),
		writeErrs: make(map[string]error),
		walkErrs:  make(map[string]error),
	}
	mfs.addDir(root)

	return mfs
}

// AddFile adds a text file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.AddFileBytes(filePath, []byte(content), 0644)
}

// AddFileBytes adds a file with raw content and permission bits.
func (mfs *MemoryFileSystem) AddFileBytes(filePath string, content []byte, perm fs.FileMode) {
	absPath := mfs.abs(filePath)
	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		relPath: mfs.rel(absPath),
		content: append([]byte(nil), content...),
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    perm.Perm(),
			modTime: time.Now(),
		},
		fs: mfs,
	}
	mfs.ensureDirectoriesExist(absPath)
}

// AddSymlink adds a dangling symbolic link. Walks report it with
// fs.ModeSymlink; Stat and ReadFile fail with fs.ErrNotExist.
func (mfs *MemoryFileSystem) AddSymlink(linkPath string) {
	mfs.AddSymlinkTo(linkPath, "")
}

// AddSymlinkTo adds a symbolic link to target. Walks report the link itself;
// Stat, ReadFile and WriteFile follow it, like their os counterparts.
func (mfs *MemoryFileSystem) AddSymlinkTo(linkPath, target string) {
	absPath := mfs.abs(linkPath)
	link := &memoryFile{
		absPath: absPath,
		relPath: mfs.rel(absPath),
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    fs.ModeSymlink | 0777,
			modTime: time.Now(),
		},
		fs: mfs,
	}
	if target != "" {
		link.target = mfs.abs(target)
	}
	mfs.files[absPath] = link
	mfs.ensureDirectoriesExist(absPath)
}

// maxLinkHops bounds symlink resolution so link cycles fail instead of looping.
const maxLinkHops = 40

// resolve returns the entry at absPath with symlinks followed.
func (mfs *MemoryFileSystem) resolve(absPath string) (*memoryFile, error) {
	for hops := 0; hops <= maxLinkHops; hops++ {
		file, exists := mfs.files[absPath]
		if !exists {
			return nil, fs.ErrNotExist
		}
		if file.info.mode&fs.ModeSymlink == 0 {
			return file, nil
		}
		if file.target == "" {
			return nil, fs.ErrNotExist
		}
		absPath = file.target
	}
	return nil, fs.ErrInvalid
}

// FailRead makes subsequent reads of filePath return err.
func (mfs *MemoryFileSystem) FailRead(filePath string, err error) {
	mfs.readErrs[mfs.abs(filePath)] = err
}

// FailWrite makes subsequent writes to filePath return err.
func (mfs *MemoryFileSystem) FailWrite(filePath string, err error) {
	mfs.writeErrs[mfs.abs(filePath)] = err
}

// FailWalk makes walks report err instead of the entry at filePath.
func (mfs *MemoryFileSystem) FailWalk(filePath string, err error) {
	mfs.walkErrs[mfs.abs(filePath)] = err
}

// Exists reports whether an entry exists at filePath.
func (mfs *MemoryFileSystem) Exists(filePath string) bool {
	_, ok := mfs.files[mfs.abs(filePath)]
	return ok
}

// abs resolves a path against the virtual root.
func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if p == "." || p == "" {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) rel(absPath string) string {
	relPath, err := filepath.Rel(mfs.root, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(relPath)
}

func (mfs *MemoryFileSystem) addDir(dir string) {
	mfs.files[dir] = &memoryFile{
		absPath: dir,
		relPath: mfs.rel(dir),
		info: &memoryFileInfo{
			name:    path.Base(dir),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
		},
		fs: mfs,
	}
}

// ensureDirectoriesExist creates directory entries for all parent directories
func (mfs *MemoryFileSystem) ensureDirectoriesExist(filePath string) {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" || dir == mfs.root {
		return
	}
	if _, exists := mfs.files[dir]; exists {
		return
	}
	mfs.addDir(dir)
	mfs.ensureDirectoriesExist(dir)
}

// getEntriesUnder returns all files and directories under the given path
func (mfs *MemoryFileSystem) getEntriesUnder(basePath string) []*memoryFile {
	var entries []*memoryFile
	for p, file := range mfs.files {
		var matched bool
		if basePath == "/" {
			matched = strings.HasPrefix(p, "/")
		} else {
			matched = p == basePath || strings.HasPrefix(p, basePath+"/")
		}
		if matched {
			entries = append(entries, file)
		}
	}
	return entries
}

// Open implements FileSystemProvider.Open
func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	absPath := mfs.abs(openPath)

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, fmt.Errorf("directory not found: %s", openPath)
	}
	if !file.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}

	return &memoryDirectory{absPath: absPath, fs: mfs}, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	absPath := mfs.abs(filePath)

	if err, failing := mfs.readErrs[absPath]; failing {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: err}
	}

	file, err := mfs.resolve(absPath)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: err}
	}
	if file.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	return append([]byte(nil), file.content...), nil
}

// WriteFile implements FileSystemProvider.WriteFile
func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	absPath := mfs.abs(filePath)

	if err, failing := mfs.writeErrs[absPath]; failing {
		return &fs.PathError{Op: "open", Path: filePath, Err: err}
	}

	file, err := mfs.resolve(absPath)
	if err != nil {
		if _, exists := mfs.files[absPath]; exists {
			return &fs.PathError{Op: "open", Path: filePath, Err: err}
		}
		mfs.AddFileBytes(absPath, data, perm)
		return nil
	}
	if file.info.IsDir() {
		return &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrInvalid}
	}

	file.content = append([]byte(nil), data...)
	file.info.size = int64(len(data))
	file.info.modTime = time.Now()
	return nil
}

// Stat implements FileSystemProvider.Stat. Symlinks are followed.
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	file, err := mfs.resolve(mfs.abs(statPath))
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: statPath, Err: err}
	}
	return file.info, nil
}

// Verify MemoryFileSystem implements the interface at compile time
var _ FileSystemProvider = (*MemoryFileSystem)(nil)

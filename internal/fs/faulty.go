package fs

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Fault defines specific failure behavior. FailAfterBytes < 0 disables the
// byte-limit check entirely.
type Fault struct {
	FailAfterBytes int64
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// FaultyFS wraps a FileSystem, injecting failures into files whose name
// matches a registered pattern. It exists to exercise the checksum-mismatch
// and recovery-exhausted paths in shard/parity/engine tests without relying
// on real disk corruption.
type FaultyFS struct {
	FS FileSystem

	mu      sync.Mutex
	rules   map[string]Fault
	Default Fault
}

// NewFaultyFS wraps fs (or Default if nil) with no rules registered; every
// file behaves normally until a rule is added via AddRule.
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:      fs,
		rules:   make(map[string]Fault),
		Default: Fault{FailAfterBytes: -1},
	}
}

// AddRule registers fault for any file whose path contains pattern. Rules
// are kept in a map, so when more than one pattern matches a path, which of
// them applies is not defined.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	fault := f.Default
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	f.mu.Unlock()

	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error             { return f.FS.Remove(name) }
func (f *FaultyFS) Rename(oldpath, newpath string) error { return f.FS.Rename(oldpath, newpath) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}
func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) { return f.FS.ReadDir(name) }
func (f *FaultyFS) Truncate(name string, size int64) error     { return f.FS.Truncate(name, size) }

type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (n int, err error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		if ff.fault.Err != nil {
			return 0, ff.fault.Err
		}
		return 0, fmt.Errorf("fs: injected write fault after %d bytes", ff.fault.FailAfterBytes)
	}

	n, err = ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		if ff.fault.Err != nil {
			return ff.fault.Err
		}
		return fmt.Errorf("fs: injected sync fault")
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		ff.File.Close()
		if ff.fault.Err != nil {
			return ff.fault.Err
		}
		return fmt.Errorf("fs: injected close fault")
	}
	return ff.File.Close()
}

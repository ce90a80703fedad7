package extract

import (
	"io/fs"
	"time"
)

type fakeFileInfo struct {
	name string
	size int64
}

func (info fakeFileInfo) Name() string       { return info.name }
func (info fakeFileInfo) Size() int64        { return info.size }
func (info fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (info fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (info fakeFileInfo) IsDir() bool        { return false }
func (info fakeFileInfo) Sys() any           { return nil }

// unstatableEntry is a directory entry whose metadata cannot be read.
type unstatableEntry struct {
	name string
	err  error
}

func (entry unstatableEntry) Name() string               { return entry.name }
func (entry unstatableEntry) IsDir() bool                { return false }
func (entry unstatableEntry) Type() fs.FileMode          { return 0 }
func (entry unstatableEntry) Info() (fs.FileInfo, error) { return nil, entry.err }

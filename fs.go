package main

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// RingdFS is an Afero FS that can also resolve absolute paths, so tests
// can swap in memory
type RingdFS interface {
	afero.Fs
	Abs(string) (string, error)
}

type ringdOSFS struct {
	afero.Fs
}

func NewRingdOSFS() RingdFS {
	return &ringdOSFS{
		afero.NewOsFs(),
	}
}

func (r *ringdOSFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

type ringdMemFS struct {
	afero.Fs
}

func NewRingdMemFS() RingdFS {
	return &ringdMemFS{
		afero.NewMemMapFs(),
	}
}

func (r *ringdMemFS) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join("/", path), nil
}

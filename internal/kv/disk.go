package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Disk stores each key as a file under a base directory.
type Disk struct {
	d *diskv.Diskv
}

// NewDisk returns a Disk rooted at dir, creating it if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

func (k *Disk) Get(key string) ([]byte, error) {
	val, err := k.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFound(key)
	}
	if err != nil {
		return nil, ReadError(key, err)
	}
	return val, nil
}

func (k *Disk) Set(key string, value []byte) error {
	if err := k.d.Write(key, value); err != nil {
		return WriteError(key, err)
	}
	return nil
}

func (k *Disk) Remove(key string) error {
	err := k.d.Erase(key)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return WriteError(key, err)
}

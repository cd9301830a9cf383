package npz

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Archive is an opened .npz file: a zip archive whose members are each one
// .npy-encoded array, named "<array-name>.npy".
type Archive struct {
	zr      *zip.ReadCloser
	members map[string]*zip.File
}

// Open opens path as an npz archive and indexes its members by array name
// (the ".npy" suffix stripped). File-not-found is reported as
// ErrFileNotFound so callers can classify it per spec.md §7's failure
// taxonomy.
func Open(path string) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("npz: stat %s: %w", path, err)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("npz: open %s: %w", path, err)
	}
	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		name := strings.TrimSuffix(f.Name, ".npy")
		members[name] = f
	}
	return &Archive{zr: zr, members: members}, nil
}

// Close releases the underlying zip file.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Has reports whether the archive contains an array with the given name.
func (a *Archive) Has(name string) bool {
	_, ok := a.members[name]
	return ok
}

// Array decodes and returns the named array. Missing names are reported as
// ErrMissingField.
func (a *Archive) Array(name string) (*Array, error) {
	f, ok := a.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("npz: open member %s: %w", name, err)
	}
	defer rc.Close()
	buf, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("npz: read member %s: %w", name, err)
	}
	return decodeNpy(name, buf)
}

// Names returns the array names present in the archive.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.members))
	for name := range a.members {
		names = append(names, name)
	}
	return names
}

package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vidgate/internal/validation"
)

// RemoveResult distinguishes the outcomes of an asset removal. "Already
// absent" is a recoverable, user-visible condition, not a system fault.
type RemoveResult int

const (
	// AssetRemoved means the file existed and was deleted.
	AssetRemoved RemoveResult = iota
	// AssetAlreadyAbsent means there was no file to delete.
	AssetAlreadyAbsent
	// AssetRemoveFailed means the file may still exist; the link row must
	// be left intact.
	AssetRemoveFailed
)

// Assets owns the download directory. Asset identity is the link title as a
// file name directly under the directory; only the orchestrator and the
// deletion flow touch it.
type Assets struct {
	dir string
}

// NewAssets creates an asset manager rooted at dir.
func NewAssets(dir string) *Assets {
	return &Assets{dir: dir}
}

// Dir returns the download directory.
func (a *Assets) Dir() string {
	return a.dir
}

// Path returns the on-disk path for a title.
func (a *Assets) Path(title string) string {
	return filepath.Join(a.dir, title)
}

// Remove deletes the asset for a title and reports which case occurred.
func (a *Assets) Remove(title string) (RemoveResult, error) {
	if !validation.ValidTitle(title) {
		return AssetRemoveFailed, fmt.Errorf("invalid asset title %q", title)
	}

	err := os.Remove(a.Path(title))
	if err == nil {
		return AssetRemoved, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return AssetAlreadyAbsent, nil
	}
	return AssetRemoveFailed, err
}

//go:generate mockgen -source ./domain.go -destination=./mocks/folders.go -package=mock_folders
package folders

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound       = errors.New("folder not found")
	ErrInvalidName    = errors.New("folder name must not be blank")
	ErrUploadInFlight = errors.New("upload already in progress for folder")
	ErrLoad           = errors.New("loading folders failed")
	ErrPersist        = errors.New("saving folders failed")
	ErrUpload         = errors.New("storing file failed")
)

// DefaultFolderName is given to newly created folders.
const DefaultFolderName = "New Folder"

type File struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Checksum string `json:"checksum,omitempty"`
}

type Folder struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Files []File `json:"files"`
}

func (f Folder) clone() Folder {
	f.Files = append([]File(nil), f.Files...)
	return f
}

// DocumentStore keeps each user's folder array as a single document field.
// LoadFolders returns an empty slice for users without a document.
type DocumentStore interface {
	LoadFolders(ctx context.Context, userID string) ([]Folder, error)
	SaveFolders(ctx context.Context, userID string, list []Folder) error
}

// BlobStore stores file contents under key and returns the retrieval URL and
// a content checksum.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (url string, checksum string, err error)
}

// Upload is one file to attach.
type Upload struct {
	Name string
	Size int64
	Body io.Reader
}

// Package upload accepts multipart file uploads and relays them to a blob store.
package upload

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/labstack/gommon/log"

	"github.com/civiclens/uploader/internal/storage"
)

// File is one parsed upload. Name is the client's filename and is advisory only.
type File struct {
	Name string
	Size int64
	Body io.Reader
}

// Service forwards uploaded files to the configured blob store under a fixed folder.
type Service struct {
	store  storage.BlobStore
	folder string
}

// NewService creates a new upload Service.
func NewService(store storage.BlobStore, folder string) *Service {
	return &Service{store: store, folder: folder}
}

// Backend names the blob store in use.
func (s *Service) Backend() string { return s.store.Name() }

// Folder is the logical folder every upload lands in.
func (s *Service) Folder() string { return s.folder }

// Upload stores f and returns the provider's descriptor. The body is passed to the store
// untouched.
func (s *Service) Upload(ctx context.Context, f File) (*storage.ObjectDescriptor, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, parseError("no filename provided", nil)
	}
	if f.Body == nil {
		return nil, parseError(ErrMissingFile.Error(), ErrMissingFile)
	}

	log.Debugf("uploading %q (%s) to %s/%s", f.Name, bytes.Format(f.Size), s.store.Name(), s.folder)

	d, err := s.store.Store(ctx, f.Name, f.Body, f.Size, s.folder)
	if err != nil {
		if errors.Is(err, storage.ErrUnauthorized) {
			return nil, &Error{Kind: KindProviderAuth, Msg: "storage provider rejected credentials", Err: err}
		}
		return nil, &Error{Kind: KindUpload, Msg: "upload to storage provider failed", Err: err}
	}

	log.Infof("stored %q as %s (%s)", f.Name, d.PublicID, bytes.Format(d.Bytes))
	return d, nil
}

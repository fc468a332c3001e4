// Package storage defines the blob store capability the upload endpoint forwards files to.
// Swap implementations by changing the concrete type injected at startup: Cloudinary is the
// production provider, MinIO works with any S3-compatible provider, Memory is for local runs.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ResourceTypeRaw tags stored objects as opaque bytes. No backend interprets content types.
const ResourceTypeRaw = "raw"

// ErrUnauthorized is returned when the provider rejects (or was never given) credentials.
var ErrUnauthorized = errors.New("storage provider rejected credentials")

// ObjectDescriptor is the provider's description of a newly stored blob. It is relayed
// verbatim to the caller.
type ObjectDescriptor struct {
	AssetID          string    `json:"asset_id,omitempty"`
	PublicID         string    `json:"public_id"`
	Version          int64     `json:"version,omitempty"`
	ResourceType     string    `json:"resource_type"`
	Type             string    `json:"type,omitempty"`
	Format           string    `json:"format,omitempty"`
	Bytes            int64     `json:"bytes"`
	URL              string    `json:"url"`
	SecureURL        string    `json:"secure_url,omitempty"`
	Folder           string    `json:"folder,omitempty"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	ETag             string    `json:"etag,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// BlobStore stores raw bytes under a logical folder and returns the stored object's descriptor.
type BlobStore interface {
	// Store streams body to the provider. size is the exact byte count, or -1 if unknown.
	Store(ctx context.Context, name string, body io.Reader, size int64, folder string) (*ObjectDescriptor, error)
	// Name identifies the backend in logs and health checks.
	Name() string
}

// splitName returns the base name of a client-supplied filename without its extension, and
// the extension without the leading dot. Directory components and Windows separators are dropped.
func splitName(name string) (stem, ext string) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return "", ""
	}
	ext = path.Ext(base)
	return strings.TrimSuffix(base, ext), strings.TrimPrefix(ext, ".")
}

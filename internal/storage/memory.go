package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps blobs in process memory. It backs STORAGE_BACKEND=memory for local runs.
type Memory struct {
	baseURL string

	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty store whose descriptors point under baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: strings.TrimRight(baseURL, "/"),
		blobs:   make(map[string][]byte),
	}
}

// Name implements BlobStore.
func (m *Memory) Name() string { return "memory" }

// Store implements BlobStore.
func (m *Memory) Store(ctx context.Context, name string, body io.Reader, size int64, folder string) (*ObjectDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	n, err := io.Copy(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if size >= 0 && n != size {
		return nil, fmt.Errorf("short body: read %d of %d bytes", n, size)
	}

	id := uuid.NewString()
	stem, ext := splitName(name)
	key := objectKey(folder, id, ext)

	m.mu.Lock()
	m.blobs[key] = buf.Bytes()
	m.mu.Unlock()

	return &ObjectDescriptor{
		AssetID:          id,
		PublicID:         key,
		ResourceType:     ResourceTypeRaw,
		Type:             "upload",
		Format:           ext,
		Bytes:            n,
		URL:              m.baseURL + "/" + key,
		Folder:           folder,
		OriginalFilename: stem,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Get returns the bytes stored under key.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	return b, ok
}

// Len reports how many blobs are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dalemusser/waffle/pantry/storage"
)

// ErrBlobNotFound is returned by MemBlobStore.Get for unknown keys.
var ErrBlobNotFound = errors.New("blob not found")

// MemBlobStore is an in-memory blob store for tests. It records content
// and content types by key and is safe for concurrent use.
type MemBlobStore struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	contentTypes map[string]string
	failPuts     bool
}

// NewMemBlobStore creates an empty in-memory blob store.
func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{
		blobs:        make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// FailPuts makes subsequent Put calls fail, for exercising error paths.
func (s *MemBlobStore) FailPuts(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

// Put stores the reader's content under key.
func (s *MemBlobStore) Put(ctx context.Context, key string, r io.Reader, opts *storage.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPuts {
		return errors.New("put failed")
	}
	s.blobs[key] = data
	if opts != nil {
		s.contentTypes[key] = opts.ContentType
	}
	return nil
}

// Get returns a reader over the content stored under key.
func (s *MemBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the content stored under key. Deleting an absent key is
// an error, matching backends that report missing objects.
func (s *MemBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, key)
	delete(s.contentTypes, key)
	return nil
}

// Len reports the number of stored blobs.
func (s *MemBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// ContentType reports the content type recorded for key.
func (s *MemBlobStore) ContentType(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentTypes[key]
}

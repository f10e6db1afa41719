package services

import (
	"context"
	"fmt"
	"sync"
)

// fakeStorage records object operations so tests can assert on cleanup
// behavior without talking to S3.
type fakeStorage struct {
	mu       sync.Mutex
	deleted  []string
	failKeys map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{failKeys: make(map[string]bool)}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return f.PublicURL(key), nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("fakeStorage: no object %s", key)
}

func (f *fakeStorage) Delete(ctx context.Context, keyOrURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[keyOrURL] {
		return fmt.Errorf("fakeStorage: simulated delete failure for %s", keyOrURL)
	}
	f.deleted = append(f.deleted, keyOrURL)
	return nil
}

func (f *fakeStorage) GeneratePresignedPutURL(ctx context.Context, userID, entityID, filename, contentType string) (string, string, error) {
	key := fmt.Sprintf("%s/%s/%s", userID, entityID, filename)
	return "https://upload.example.com/" + key, key, nil
}

func (f *fakeStorage) KeyFromURL(s string) string { return s }

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeStorage) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

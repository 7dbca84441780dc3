package storage

import (
	"context"
	"io"
	"sync"
)

// MockUploader is a mock implementation of FileUploader for testing.
// It is safe for concurrent use.
type MockUploader struct {
	mu sync.Mutex

	UploadFunc func(key, contentType string, data []byte) (*UploadResult, error)

	UploadCalls []struct {
		Key         string
		ContentType string
		Data        []byte
	}
	DeleteCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockUploader {
	return &MockUploader{}
}

func (m *MockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadCalls = append(m.UploadCalls, struct {
		Key         string
		ContentType string
		Data        []byte
	}{key, contentType, data})
	if m.UploadFunc != nil {
		return m.UploadFunc(key, contentType, data)
	}
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *MockUploader) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, key)
	return nil
}

func (m *MockUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

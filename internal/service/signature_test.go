package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage is an in-memory storage.Storage for tests.
type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *memStorage) Put(_ context.Context, key string, data io.Reader, opts storage.PutOptions) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[key] = b
	m.types[key] = opts.ContentType
	return nil
}

func (m *memStorage) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrNotFound
	}
	info := storage.ObjectInfo{Key: key, Size: int64(len(b)), ContentType: m.types[key]}
	return io.NopCloser(bytes.NewReader(b)), info, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStorage) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

// testPNG renders a white rectangle of the given dimensions.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessSignature(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("stores normalized image and returns URL", func(t *testing.T) {
		store := newMemStorage()
		svc := NewSignatureService(store, logger)

		url, err := svc.ProcessSignature(context.Background(), bytes.NewReader(testPNG(t, 100, 40)), "sig.png", "image/png")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://files.test/signatures/"))
		assert.True(t, strings.HasSuffix(url, ".png"))
		require.Len(t, store.objects, 1)
		for key := range store.objects {
			assert.Equal(t, "image/png", store.types[key])
		}
	})

	t.Run("resizes oversized images within bounds", func(t *testing.T) {
		store := newMemStorage()
		svc := NewSignatureService(store, logger)

		_, err := svc.ProcessSignature(context.Background(), bytes.NewReader(testPNG(t, 3000, 1200)), "sig.png", "image/png")
		require.NoError(t, err)

		require.Len(t, store.objects, 1)
		for _, b := range store.objects {
			img, err := png.Decode(bytes.NewReader(b))
			require.NoError(t, err)
			assert.LessOrEqual(t, img.Bounds().Dx(), SignatureMaxWidth)
			assert.LessOrEqual(t, img.Bounds().Dy(), SignatureMaxHeight)
		}
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		svc := NewSignatureService(newMemStorage(), logger)

		_, err := svc.ProcessSignature(context.Background(), strings.NewReader("%PDF-1.4"), "sig.pdf", "application/pdf")

		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("rejects undecodable data", func(t *testing.T) {
		svc := NewSignatureService(newMemStorage(), logger)

		_, err := svc.ProcessSignature(context.Background(), strings.NewReader("not an image"), "sig.png", "image/png")

		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

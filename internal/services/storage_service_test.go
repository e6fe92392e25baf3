package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slayk/storefront-admin/internal/config"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func localStorage(t *testing.T, maxMB int) *StorageService {
	t.Helper()
	service, err := NewStorageService(config.AWSConfig{}, config.StorageConfig{
		LocalPath:     t.TempDir(),
		PublicBaseURL: "http://localhost:8001/",
		MaxUploadMB:   maxMB,
	})
	require.NoError(t, err)
	require.True(t, service.IsLocal())
	return service
}

func TestUploadProductImagesToLocalDisk(t *testing.T) {
	service := localStorage(t, 5)

	results, err := service.UploadProductImages(context.Background(), fileHeaders(t, map[string][]byte{"Rug.PNG": pngBytes}))
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.True(t, strings.HasPrefix(result.Key, "products/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8001/uploads/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)
	assert.EqualValues(t, len(pngBytes), result.Size)

	stored, err := os.ReadFile(filepath.Join(service.LocalPath(), filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	require.NoError(t, service.DeleteFile(context.Background(), result.Key))
	_, err = os.Stat(filepath.Join(service.LocalPath(), filepath.FromSlash(result.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadProductImagesRejectsBadFiles(t *testing.T) {
	service := localStorage(t, 1)

	tests := map[string]map[string][]byte{
		"extension":  {"script.exe": pngBytes},
		"content":    {"fake.jpg": pngBytes},
		"oversize":   {"huge.png": append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2<<20)...)},
		"mixed open": {"ok.png": pngBytes, "notes.txt": []byte("hello")},
	}
	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.UploadProductImages(context.Background(), fileHeaders(t, files))
			assert.ErrorIs(t, err, ErrInvalidUpload)
		})
	}

	entries, err := os.ReadDir(service.LocalPath())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = service.UploadProductImages(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidUpload)
}

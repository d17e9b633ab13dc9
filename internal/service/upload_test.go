package service

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/qconnect/clinic-api/config"
	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService() *UploadService {
	return NewUploadService(config.StorageConfig{
		UploadSecret:  "test-upload-secret",
		MaxUploadSize: 1024,
		URLTTL:        time.Minute,
		BaseURL:       "http://localhost:8080",
	})
}

func TestUploadService_PresignAndVerify(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService()

	resp, err := svc.Presign(context.Background(), 7, &dto.PresignUploadRequest{
		Filename: "scan.pdf",
		FileType: "application/pdf",
		Size:     512,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "uploads/7/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".pdf"))
	assert.WithinDuration(t, time.Now().Add(time.Minute), resp.ExpiresAt, 2*time.Second)

	parsed, err := url.Parse(resp.URL)
	require.NoError(t, err)
	expires, err := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	signature := parsed.Query().Get("signature")
	require.NotEmpty(t, signature)

	assert.NoError(t, svc.Verify(resp.Key, expires, signature))
}

func TestUploadService_VerifyRejectsTampering(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService()

	resp, err := svc.Presign(context.Background(), 7, &dto.PresignUploadRequest{
		Filename: "photo.png",
		FileType: "image/png",
		Size:     100,
	})
	require.NoError(t, err)

	parsed, _ := url.Parse(resp.URL)
	expires, _ := strconv.ParseInt(parsed.Query().Get("expires"), 10, 64)
	signature := parsed.Query().Get("signature")

	// Key swapped for someone else's path.
	assert.Error(t, svc.Verify("uploads/8/other.png", expires, signature))
	// Expiry extended without re-signing.
	assert.Error(t, svc.Verify(resp.Key, expires+3600, signature))
	// Signature forged.
	assert.Error(t, svc.Verify(resp.Key, expires, "deadbeef"))
}

func TestUploadService_VerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService()
	stale := time.Now().Add(-time.Minute).Unix()
	sig := svc.sign("uploads/1/old.pdf", stale)

	assert.Error(t, svc.Verify("uploads/1/old.pdf", stale, sig))
}

func TestUploadService_PresignValidation(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService()
	ctx := context.Background()

	_, err := svc.Presign(ctx, 1, &dto.PresignUploadRequest{
		Filename: "malware.exe",
		FileType: "application/x-msdownload",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)

	_, err = svc.Presign(ctx, 1, &dto.PresignUploadRequest{
		Filename: "huge.pdf",
		FileType: "application/pdf",
		Size:     4096,
	})
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestUploadService_StoreWritesUnderLocalDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := NewUploadService(config.StorageConfig{
		UploadSecret:  "test-upload-secret",
		MaxUploadSize: 1024,
		URLTTL:        time.Minute,
		BaseURL:       "http://localhost:8080",
		LocalDir:      dir,
	})

	n, err := svc.Store(context.Background(), "uploads/7/report.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "7", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestUploadService_StoreRejectsBadKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := NewUploadService(config.StorageConfig{
		UploadSecret:  "test-upload-secret",
		MaxUploadSize: 1024,
		LocalDir:      dir,
	})
	ctx := context.Background()

	_, err := svc.Store(ctx, "uploads/../etc/passwd", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Store(ctx, "other/1/file.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUploadService_StoreEnforcesSizeCap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := NewUploadService(config.StorageConfig{
		UploadSecret:  "test-upload-secret",
		MaxUploadSize: 8,
		LocalDir:      dir,
	})

	_, err := svc.Store(context.Background(), "uploads/1/big.pdf", strings.NewReader("way too large"))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, statErr := os.Stat(filepath.Join(dir, "uploads", "1", "big.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadService_KeysAreUnique(t *testing.T) {
	t.Parallel()

	svc := newTestUploadService()
	ctx := context.Background()
	req := &dto.PresignUploadRequest{Filename: "a.jpg", FileType: "image/jpeg", Size: 10}

	first, err := svc.Presign(ctx, 1, req)
	require.NoError(t, err)
	second, err := svc.Presign(ctx, 1, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qconnect/clinic-api/config"
	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// allowedUploadTypes maps accepted MIME types to the stored extension.
// Patient uploads are documents and scans, nothing executable.
var allowedUploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadService mints pre-signed upload URLs. The signature is an
// HMAC-SHA256 over key and expiry, so the upload endpoint can verify a
// grant without any stored state.
type UploadService struct {
	secret   []byte
	maxSize  int64
	urlTTL   time.Duration
	baseURL  string
	localDir string
}

func NewUploadService(cfg config.StorageConfig) *UploadService {
	return &UploadService{
		secret:   []byte(cfg.UploadSecret),
		maxSize:  cfg.MaxUploadSize,
		urlTTL:   cfg.URLTTL,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		localDir: cfg.LocalDir,
	}
}

// Presign validates type and size, then mints a grant for a fresh object
// key. The original filename only contributes a sanitized suffix; the key
// itself is a UUID so uploads can never collide or traverse paths.
func (s *UploadService) Presign(ctx context.Context, userID uint, req *dto.PresignUploadRequest) (*dto.PresignUploadResponse, error) {
	ext, ok := allowedUploadTypes[strings.ToLower(req.FileType)]
	if !ok {
		return nil, apperrors.ErrUnsupportedFileType
	}

	if req.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	key := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.NewString(), ext)
	expiresAt := time.Now().Add(s.urlTTL)
	sig := s.sign(key, expiresAt.Unix())

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))
	q.Set("signature", sig)

	logger.InfoWithContext(ctx, "upload URL minted").
		Uint("user_id", userID).
		String("key", key).
		String("file_type", req.FileType).
		Log()

	return &dto.PresignUploadResponse{
		Key:       key,
		URL:       fmt.Sprintf("%s/api/v1/files/%s?%s", s.baseURL, path.Clean(key), q.Encode()),
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks a presented grant: matching signature and unexpired window.
// Comparison is constant-time.
func (s *UploadService) Verify(key string, expires int64, signature string) error {
	if time.Now().Unix() > expires {
		return apperrors.ErrInvalidToken
	}

	expected := s.sign(key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return apperrors.ErrInvalidToken
	}
	return nil
}

// Store writes an uploaded body under the local storage root. The key must
// be one this service minted: cleaned and rooted at uploads/, so a grant can
// never write outside the tree.
func (s *UploadService) Store(ctx context.Context, key string, body io.Reader) (int64, error) {
	clean := path.Clean(key)
	if clean != key || !strings.HasPrefix(clean, "uploads/") {
		return 0, apperrors.ErrInvalidInput
	}

	dst := filepath.Join(s.localDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(body, s.maxSize+1))
	if err != nil {
		os.Remove(dst)
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if n > s.maxSize {
		os.Remove(dst)
		return 0, apperrors.ErrFileTooLarge
	}

	logger.InfoWithContext(ctx, "upload stored").
		String("key", clean).
		Int64("size", n).
		Log()

	return n, nil
}

func (s *UploadService) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}

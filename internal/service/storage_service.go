package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores uploaded assignment files either on local disk
// or in a MinIO bucket, selected by configuration.
type StorageService struct {
	cfg   *config.StorageConfig
	minio *minio.Client
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	s := &StorageService{cfg: cfg}

	switch cfg.Type {
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		s.minio = client
	case "local", "":
		if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
			return nil, fmt.Errorf("storage dir: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
	return s, nil
}

// Upload stores the file and returns the URL/path it is retrievable at.
// Filenames are randomized to avoid collisions and path tricks.
func (s *StorageService) Upload(ctx context.Context, filename string, size int64, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	object := fmt.Sprintf("assignments/%s/%s%s", time.Now().Format("2006-01"), uuid.NewString(), ext)

	if s.minio != nil {
		_, err := s.minio.PutObject(ctx, s.cfg.MinioBucket, object, reader, size, minio.PutObjectOptions{
			ContentType: contentTypeFor(ext),
		})
		if err != nil {
			return "", fmt.Errorf("minio upload: %w", err)
		}
		scheme := "http"
		if s.cfg.MinioUseSSL {
			scheme = "https"
		}
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinioEndpoint, s.cfg.MinioBucket, object), nil
	}

	path := filepath.Join(s.cfg.LocalPath, filepath.FromSlash(object))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Join("uploads", object)), nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

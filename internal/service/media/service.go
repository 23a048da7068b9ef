package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"student-housing/internal/config"
	"student-housing/internal/domain"
)

var (
	ErrFileTooLarge     = errors.New("file exceeds the 10 MB limit")
	ErrUnsupportedMedia = errors.New("only image and video files are accepted")
)

type Service interface {
	Upload(ctx context.Context, ownerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.UploadedMedia, error)
}

// ObjectStore is the subset of the MinIO client used for uploads.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type service struct {
	store ObjectStore
	cfg   *config.Config
}

func NewService(store ObjectStore, cfg *config.Config) Service {
	return &service{
		store: store,
		cfg:   cfg,
	}
}

func KindOf(mimeType string) (domain.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return domain.MediaImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return domain.MediaVideo, true
	default:
		return "", false
	}
}

func (s *service) Upload(ctx context.Context, ownerID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.UploadedMedia, error) {
	if fileSize > domain.MaxMediaSize {
		return nil, ErrFileTooLarge
	}
	kind, ok := KindOf(mimeType)
	if !ok {
		return nil, ErrUnsupportedMedia
	}

	storagePath := fmt.Sprintf("listings/%s/%s/%s%s",
		ownerID, time.Now().Format("2006/01"), uuid.New(), strings.ToLower(path.Ext(fileName)))

	_, err := s.store.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return &domain.UploadedMedia{
		URL:         s.publicURL(storagePath),
		Kind:        kind,
		StoragePath: storagePath,
		MimeType:    mimeType,
		Size:        fileSize,
	}, nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   s.cfg.MinIOPublicEndpoint,
		Path:   path.Join("/", s.cfg.MinIOBucket, storagePath),
	}
	return u.String()
}

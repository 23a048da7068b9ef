package media_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-housing/internal/config"
	"student-housing/internal/domain"
	"student-housing/internal/service/media"
)

type fakeStore struct {
	objects map[string]string
	err     error
}

func (f *fakeStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucketName+"/"+objectName] = string(data)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MinIOBucket:         "listing-media",
		MinIOPublicEndpoint: "cdn.example.com",
		MinIOPublicUseSSL:   true,
	}
}

func TestMediaService_Upload(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Image", func(t *testing.T) {
		store := &fakeStore{objects: map[string]string{}}
		svc := media.NewService(store, testConfig())

		uploaded, err := svc.Upload(ctx, ownerID, "Kitchen.JPG", 5, "image/jpeg", strings.NewReader("bytes"))
		require.NoError(t, err)

		assert.Equal(t, domain.MediaImage, uploaded.Kind)
		assert.True(t, strings.HasPrefix(uploaded.StoragePath, "listings/"+ownerID.String()+"/"))
		assert.True(t, strings.HasSuffix(uploaded.StoragePath, ".jpg"))
		assert.Equal(t, "https://cdn.example.com/listing-media/"+uploaded.StoragePath, uploaded.URL)
		assert.Equal(t, "bytes", store.objects["listing-media/"+uploaded.StoragePath])
	})

	t.Run("Video", func(t *testing.T) {
		svc := media.NewService(&fakeStore{objects: map[string]string{}}, testConfig())

		uploaded, err := svc.Upload(ctx, ownerID, "tour.mp4", 3, "video/mp4", strings.NewReader("mp4"))
		require.NoError(t, err)
		assert.Equal(t, domain.MediaVideo, uploaded.Kind)
	})

	t.Run("Too large", func(t *testing.T) {
		svc := media.NewService(&fakeStore{objects: map[string]string{}}, testConfig())

		_, err := svc.Upload(ctx, ownerID, "big.png", domain.MaxMediaSize+1, "image/png", strings.NewReader(""))
		assert.ErrorIs(t, err, media.ErrFileTooLarge)
	})

	t.Run("Unsupported type", func(t *testing.T) {
		svc := media.NewService(&fakeStore{objects: map[string]string{}}, testConfig())

		_, err := svc.Upload(ctx, ownerID, "notes.pdf", 10, "application/pdf", strings.NewReader("pdf"))
		assert.ErrorIs(t, err, media.ErrUnsupportedMedia)
	})

	t.Run("Store failure", func(t *testing.T) {
		svc := media.NewService(&fakeStore{err: errors.New("bucket gone")}, testConfig())

		_, err := svc.Upload(ctx, ownerID, "a.png", 1, "image/png", strings.NewReader("a"))
		assert.ErrorContains(t, err, "bucket gone")
	})
}

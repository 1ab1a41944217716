package storage

//go:generate go run go.uber.org/mock/mockgen -source=./storage.go -destination=./mocks/storage_mock.go -package=mocks

import (
	"context"
	"eventhub/config"
	"eventhub/infras/otel"
	"eventhub/infras/s3"
	"eventhub/shared/constant"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FileStore persists uploaded images and resolves them back by public URL.
type FileStore interface {
	Save(ctx context.Context, dir, name, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// StoredFile describes a file after it was written to the store.
type StoredFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// New selects the backend configured in Upload.Backend.
func New(cfg *config.Config, s3Client s3.S3, otel otel.Otel) FileStore {
	if cfg.Upload.Backend == constant.UploadBackendS3 {
		log.Info().Str("bucket", cfg.External.S3.BucketName).Msg("Using S3 upload storage")

		return &objectStore{client: s3Client, otel: otel}
	}

	log.Info().Str("dir", UploadDir(cfg)).Msg("Using local upload storage")

	return &localStore{root: UploadDir(cfg), publicPath: PublicPath(cfg), otel: otel}
}

// UploadDir is the local upload root with its default applied.
func UploadDir(cfg *config.Config) string {
	if cfg.Upload.Dir == "" {
		return constant.DefaultUploadDir
	}

	return cfg.Upload.Dir
}

// PublicPath is the URL prefix of locally served uploads with its default applied.
func PublicPath(cfg *config.Config) string {
	if cfg.Upload.PublicPath == "" {
		return constant.DefaultPublicPath
	}

	return strings.TrimSuffix(cfg.Upload.PublicPath, "/")
}

// MaxFileSizeMB is the per-file upload limit with its default applied.
func MaxFileSizeMB(cfg *config.Config) int {
	if cfg.Upload.MaxFileSizeMB <= 0 {
		return constant.DefaultMaxFileSize
	}

	return cfg.Upload.MaxFileSizeMB
}

// MaxFiles is the number of images accepted in one request with its default applied.
func MaxFiles(cfg *config.Config) int {
	if cfg.Upload.MaxFiles <= 0 {
		return constant.DefaultMaxFiles
	}

	return cfg.Upload.MaxFiles
}

// ImageURL turns a stored image reference into a public URL. Bare file names
// are served from the public path and an empty reference yields the default image.
func ImageURL(cfg *config.Config, image string) string {
	publicPath := PublicPath(cfg)

	image, _, _ = strings.Cut(image, `"`)
	image, _, _ = strings.Cut(image, "?")

	switch {
	case image == "":
		name := cfg.Upload.DefaultImage
		if name == "" {
			name = constant.DefaultImage
		}

		return publicPath + "/" + name
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"), strings.HasPrefix(image, publicPath+"/"):
		return image
	default:
		return publicPath + "/" + strings.TrimPrefix(image, "/")
	}
}

// NewFileName returns a collision-free name that keeps the original extension.
func NewFileName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// SaveUpload reads a multipart file and stores it under dir with a fresh name.
func SaveUpload(ctx context.Context, store FileStore, dir string, header *multipart.FileHeader) (StoredFile, error) {
	file, err := header.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}

	name := NewFileName(header.Filename)

	url, err := store.Save(ctx, dir, name, header.Header.Get(constant.RequestHeaderContentType), data)
	if err != nil {
		return StoredFile{}, err
	}

	return StoredFile{URL: url, Filename: name, Size: int64(len(data))}, nil
}

// DeleteQuietly removes files and only logs failures.
func DeleteQuietly(ctx context.Context, store FileStore, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}

		if err := store.Delete(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to delete stored file")
		}
	}
}

type objectStore struct {
	client s3.S3
	otel   otel.Otel
}

func (o *objectStore) Save(ctx context.Context, dir, name, contentType string, data []byte) (url string, err error) {
	ctx, scope := o.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".object.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return o.client.Upload(ctx, path.Join(dir, name), contentType, data)
}

func (o *objectStore) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := o.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".object.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := o.client.ObjectKeyFromURL(url)
	if key == "" {
		return nil
	}

	return o.client.Delete(ctx, key)
}

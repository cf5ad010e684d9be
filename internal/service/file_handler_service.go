package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/pkg/storage"
)

type PutObjectResponse struct {
	KeyFilename string
}

type FileHandlerService struct {
	storage storage.StorageService
	log     *zap.Logger
}

func NewFileHandlerService(storage storage.StorageService, log *zap.Logger) *FileHandlerService {
	return &FileHandlerService{
		storage: storage,
		log:     log.Named("file_handler"),
	}
}

func objectKey(folder, filename string) string {
	return path.Join(folder, filename)
}

// artifactFilename gives every workflow run its own object, so a failed run
// can delete what it stored without touching a key another run recorded.
// summary.pdf becomes summary-<uuid>.pdf.
func artifactFilename(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + uuid.NewString() + ext
}

func (s *FileHandlerService) PutObject(ctx context.Context, data []byte, folder, filename string) (*PutObjectResponse, error) {
	key := objectKey(folder, filename)

	contentType := mimetype.Detect(data).String()
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	s.log.Info("object stored", zap.String("key", key), zap.Int("size", len(data)))
	return &PutObjectResponse{KeyFilename: key}, nil
}

func (s *FileHandlerService) GetObject(ctx context.Context, key string) ([]byte, error) {
	return s.storage.Download(ctx, key)
}

func (s *FileHandlerService) DeleteObject(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

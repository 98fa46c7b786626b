package attachment

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/storage"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
	"github.com/VladKovDev/botconstructor/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyPrefix = "chat-bot/attachments"

// Upload is one incoming file of a batch.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service stores attachment batches. A batch is validated up front and
// transferred concurrently; if any file fails, the objects already
// stored are rolled back and the whole batch is reported failed.
type Service struct {
	store storage.ObjectStore
	log   logger.Logger
}

func NewService(store storage.ObjectStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.Noop()
	}
	return &Service{store: store, log: log}
}

// UploadBatch stores every file of the batch and returns their
// attachment records in input order. mediaOnly applies the media-message
// content-type gate before any byte is transferred.
func (s *Service) UploadBatch(ctx context.Context, uploads []Upload, mediaOnly bool) ([]scenario.Attachment, error) {
	files := make([]validation.AttachmentFile, 0, len(uploads))
	for _, u := range uploads {
		files = append(files, validation.AttachmentFile{
			Filename:    u.Filename,
			ContentType: u.ContentType,
			Size:        u.Size,
		})
	}
	if err := validation.AttachmentBatch(files, mediaOnly); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([]scenario.Attachment, len(uploads))
	keys := make([]string, len(uploads))

	for i, u := range uploads {
		wg.Add(1)
		go func(i int, u Upload) {
			defer wg.Done()

			key := objectKey(u.Filename)
			url, err := s.store.Put(ctx, key, u.Reader)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to store %q: %w", u.Filename, err)
					cancel()
				}
				return
			}
			keys[i] = key
			results[i] = scenario.Attachment{
				URL:         url,
				Filename:    u.Filename,
				ContentType: u.ContentType,
				Size:        u.Size,
			}
		}(i, u)
	}
	wg.Wait()

	if firstErr != nil {
		s.rollback(keys)
		s.log.Error("attachment batch failed", zap.Error(firstErr))
		return nil, firstErr
	}

	s.log.Info("attachment batch stored", zap.Int("count", len(results)))
	return results, nil
}

// rollback best-effort deletes the objects a failed batch already wrote.
func (s *Service) rollback(keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(context.Background(), key); err != nil {
			s.log.Warn("failed to roll back attachment", zap.String("key", key), zap.Error(err))
		}
	}
}

func objectKey(filename string) string {
	return keyPrefix + "/" + uuid.NewString() + "/" + safeFilename(filename)
}

// safeFilename strips any path components and characters that would
// break the key scheme.
func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

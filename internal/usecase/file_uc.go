package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

var allowedUploadTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"text/plain",
	"text/csv",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// UploadInput is a file received from a multipart request.
type UploadInput struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// FileUsecase validates uploads and stores them under the tenant's key prefix.
type FileUsecase struct {
	storage  FileStorage
	maxBytes int64
	urlTTL   time.Duration
	logger   *logger.Logger
}

func NewFileUsecase(storage FileStorage, maxBytes int64, urlTTL time.Duration, log *logger.Logger) *FileUsecase {
	return &FileUsecase{storage: storage, maxBytes: maxBytes, urlTTL: urlTTL, logger: log.Named("FileUsecase")}
}

// MaxBytes is the largest accepted upload.
func (uc *FileUsecase) MaxBytes() int64 {
	return uc.maxBytes
}

// detectType sniffs the content type of in and checks it against the allowlist.
// The returned reader replays the sniffed prefix.
func detectType(in UploadInput) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	mt := mimetype.Detect(head)
	for _, allowed := range allowedUploadTypes {
		if mt.Is(allowed) {
			return allowed, io.MultiReader(bytes.NewReader(head), in.Body), nil
		}
	}
	return "", nil, fmt.Errorf("%w: file type %s is not allowed", domain.ErrInvalidInput, mt.String())
}

// tenantPrefix places every object of a tenant under its organization id.
func tenantPrefix(orgID string, parts ...string) string {
	if orgID == "" {
		orgID = "global"
	}
	return path.Join(append([]string{orgID}, parts...)...)
}

// store validates in and uploads it below prefix.
func (uc *FileUsecase) store(ctx context.Context, prefix string, in UploadInput) (*domain.StoredObject, error) {
	if in.Size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}
	if uc.maxBytes > 0 && in.Size > uc.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d byte limit", domain.ErrInvalidInput, uc.maxBytes)
	}
	contentType, body, err := detectType(in)
	if err != nil {
		return nil, err
	}
	obj, err := uc.storage.Upload(ctx, prefix, path.Base(in.FileName), contentType, body, in.Size)
	if err != nil {
		uc.logger.Error("Failed to store upload", zap.String("prefix", prefix), zap.Error(err))
		return nil, err
	}
	if url, err := uc.storage.PresignedURL(ctx, obj.Key, uc.urlTTL); err == nil {
		obj.URL = url
	} else {
		uc.logger.Warn("Failed to presign uploaded object", zap.String("key", obj.Key), zap.Error(err))
	}
	uc.logger.Info("File stored", zap.String("key", obj.Key), zap.Int64("size", obj.Size))
	return obj, nil
}

// Upload stores a general purpose file for the actor's organization.
func (uc *FileUsecase) Upload(ctx context.Context, actor *domain.Actor, organizationID string, in UploadInput) (*domain.StoredObject, error) {
	org, err := actor.ScopeOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	return uc.store(ctx, tenantPrefix(org, "files"), in)
}

// PresignedURL returns a temporary download link. Tenants may only sign their own keys.
func (uc *FileUsecase) PresignedURL(ctx context.Context, actor *domain.Actor, key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}
	if !actor.IsSuperAdmin() && !strings.HasPrefix(key, actor.OrganizationID+"/") {
		return "", domain.ErrNotFound
	}
	return uc.storage.PresignedURL(ctx, key, uc.urlTTL)
}

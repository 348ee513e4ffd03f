// internals/helpers/oss/oss_file_service.go
package helper

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/*
BlobService is the upload/delete facade controllers talk to.
Keys are returned so the caller can persist them (signed URLs are minted
on read, the buckets are private).
*/
type BlobService interface {
	// UploadImage re-encodes to webp (logos, letterheads).
	UploadImage(ctx context.Context, firmID uuid.UUID, slot string, fh *multipart.FileHeader) (objectKey string, err error)
	// UploadAttachment stores the file as-is (declaration documents).
	UploadAttachment(ctx context.Context, firmID uuid.UUID, slot string, fh *multipart.FileHeader) (objectKey string, err error)

	SignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
	DeleteByObjectKey(ctx context.Context, objectKey string) error
}

type OSSBlobService struct {
	svc *OSSService
}

// NewOSSBlobServiceFromEnv builds the facade from env. prefix optional ("uploads/").
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) UploadImage(ctx context.Context, firmID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "file missing")
	}
	if firmID == uuid.Nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid firm_id")
	}
	if !IsImageFilename(fh.Filename) {
		return "", fiber.NewError(fiber.StatusBadRequest, "not an image")
	}

	src, err := openFormFile(fh)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer src.Close()

	data, err := EncodeImageToWebP(src, defaultWebPOptionsFromEnv())
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	base := strings.TrimSuffix(fh.Filename, extOf(fh.Filename)) + ".webp"
	key := b.svc.ObjectKey(firmID, slot, base)
	if _, err := b.svc.PutStream(key, "image/webp", bytes.NewReader(data)); err != nil {
		return "", err
	}
	return key, nil
}

func (b *OSSBlobService) UploadAttachment(ctx context.Context, firmID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "file missing")
	}
	if firmID == uuid.Nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid firm_id")
	}

	src, err := openFormFile(fh)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer src.Close()

	key := b.svc.ObjectKey(firmID, slot, fh.Filename)
	contentType := fh.Header.Get("Content-Type")
	if _, err := b.svc.PutStream(key, contentType, io.Reader(src)); err != nil {
		return "", err
	}
	return key, nil
}

func (b *OSSBlobService) SignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	return b.svc.SignedURL(objectKey, ttl)
}

func (b *OSSBlobService) DeleteByObjectKey(ctx context.Context, objectKey string) error {
	return b.svc.Delete(objectKey)
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// TryGetFormFile fetches a multipart file from any of the given field names.
func TryGetFormFile(c *fiber.Ctx, names ...string) *multipart.FileHeader {
	for _, n := range names {
		if fh, err := c.FormFile(n); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}

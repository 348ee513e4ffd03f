// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := getEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			return float32(f)
		}
	}
	return def
}

// Light guard; controllers enforce their own limits too.
var maxUploadSize = int64(10 * 1024 * 1024)

/* =======================================================================
   OSS service
======================================================================= */

type OSSService struct {
	Bucket *oss.Bucket
	Prefix string
}

// NewOSSServiceFromEnv builds the client from OSS_* env vars.
// prefix is optional, e.g. "uploads/".
func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")

	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("oss: OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET must be set")
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("oss: client init: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss: bucket: %w", err)
	}
	return &OSSService{Bucket: bucket, Prefix: strings.TrimPrefix(prefix, "/")}, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeFilename.ReplaceAllString(filename, "_")
}

// ObjectKey builds "<prefix><firm_id>/<slot>/<yyyymmdd>-<uuid>-<name>".
func (s *OSSService) ObjectKey(firmID uuid.UUID, slot, originalFilename string) string {
	return fmt.Sprintf("%s%s/%s/%s-%s-%s",
		s.Prefix,
		firmID.String(),
		strings.Trim(slot, "/"),
		time.Now().Format("20060102"),
		uuid.New().String(),
		sanitizeFilename(originalFilename),
	)
}

// PutStream uploads data under key with the given content type.
func (s *OSSService) PutStream(key, contentType string, r io.Reader) (string, error) {
	opts := []oss.Option{}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.Bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("oss: put %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *OSSService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.Bucket.BucketName, getEnv("OSS_ENDPOINT"), key)
}

// SignedURL returns a time-limited GET URL (private buckets / attachments).
func (s *OSSService) SignedURL(key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	u, err := s.Bucket.SignURL(key, oss.HTTPGet, int64(ttl.Seconds()))
	if err != nil {
		return "", fmt.Errorf("oss: sign %s: %w", key, err)
	}
	return u, nil
}

func (s *OSSService) Delete(key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return s.Bucket.DeleteObject(key)
}

/* =======================================================================
   Image → WebP re-encode (logos, letterheads)
======================================================================= */

type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:    envInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    envInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: envFloat("IMAGE_WEBP_QUALITY", 80),
	}
}

// EncodeImageToWebP decodes, downsizes keep-aspect and re-encodes to webp.
func EncodeImageToWebP(r io.Reader, opt WebPOptions) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if (opt.MaxW > 0 && w > opt.MaxW) || (opt.MaxH > 0 && h > opt.MaxH) {
		scaleW := float64(opt.MaxW) / float64(w)
		scaleH := float64(opt.MaxH) / float64(h)
		scale := scaleW
		if scaleH < scale {
			scale = scaleH
		}
		nw, nh := int(float64(w)*scale), int(float64(h)*scale)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: opt.Quality}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

// IsImageFilename by extension; content sniffing happens at decode.
func IsImageFilename(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}

func openFormFile(fh *multipart.FileHeader) (multipart.File, error) {
	if fh == nil {
		return nil, fmt.Errorf("file missing")
	}
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("file too large (%d bytes)", fh.Size)
	}
	return fh.Open()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"worklinkph/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const maxAvatarBytes = 5 << 20

var (
	ErrTooLarge       = errors.New("avatar exceeds 5MB")
	ErrNotAnImage     = errors.New("avatar must be an image")
	allowedAvatarExts = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// Avatars stores profile pictures in an S3-compatible bucket (MinIO,
// Supabase Storage, AWS S3).
type Avatars struct {
	cfg    config.StorageConfig
	client *minio.Client
}

func NewAvatars(cfg config.StorageConfig) (*Avatars, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Avatars{cfg: cfg, client: cl}, nil
}

func (s *Avatars) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *Avatars) PutAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error) {
	if size > maxAvatarBytes {
		return "", ErrTooLarge
	}
	ext, err := avatarExt(filename, contentType)
	if err != nil {
		return "", err
	}

	key := AvatarKey(userID, ext)
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}
	return s.PublicURL(key), nil
}

// RemoveAvatar deletes a previously stored avatar. URLs that do not point
// into this bucket are ignored.
func (s *Avatars) RemoveAvatar(ctx context.Context, url string) error {
	key, ok := s.KeyFromURL(url)
	if !ok {
		return nil
	}
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// KeyFromURL is the inverse of PublicURL.
func (s *Avatars) KeyFromURL(url string) (string, bool) {
	prefix := s.PublicURL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if !strings.HasPrefix(key, "avatars/") {
		return "", false
	}
	return key, true
}

// PublicURL is <public base>/<bucket>/<key>; without a public base the
// endpoint itself is used.
func (s *Avatars) PublicURL(key string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if s.cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + strings.TrimPrefix(strings.TrimPrefix(s.cfg.Endpoint, "http://"), "https://")
	}
	return strings.TrimRight(base, "/") + "/" + s.cfg.Bucket + "/" + key
}

func AvatarKey(userID uuid.UUID, ext string) string {
	return "avatars/" + userID.String() + "/" + uuid.NewString() + ext
}

func avatarExt(filename, contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ext, ok := allowedAvatarExts[ct]; ok {
		return ext, nil
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == ".jpeg" {
		return ext, nil
	}
	for _, allowed := range allowedAvatarExts {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrNotAnImage
}

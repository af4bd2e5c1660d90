package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"worklinkph/internal/config"

	"github.com/google/uuid"
)

func TestAvatarExt(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
		wantErr     error
	}{
		{name: "content type wins", filename: "me.bin", contentType: "image/png", want: ".png"},
		{name: "content type params", filename: "me", contentType: "image/jpeg; charset=binary", want: ".jpg"},
		{name: "falls back to extension", filename: "Me.WEBP", contentType: "application/octet-stream", want: ".webp"},
		{name: "jpeg extension", filename: "me.jpeg", contentType: "", want: ".jpeg"},
		{name: "rejects non image", filename: "cv.pdf", contentType: "application/pdf", wantErr: ErrNotAnImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := avatarExt(tt.filename, tt.contentType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestAvatars_KeyAndURL(t *testing.T) {
	id := uuid.New()
	key := AvatarKey(id, ".png")
	if !strings.HasPrefix(key, "avatars/"+id.String()+"/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}

	s, err := NewAvatars(config.StorageConfig{Endpoint: "localhost:9000", Bucket: "avatars", AccessKey: "k", SecretKey: "s"})
	if err != nil {
		t.Fatalf("new avatars: %v", err)
	}
	if got := s.PublicURL("avatars/a.png"); got != "http://localhost:9000/avatars/avatars/a.png" {
		t.Fatalf("unexpected url %q", got)
	}

	if k, ok := s.KeyFromURL("http://localhost:9000/avatars/" + key); !ok || k != key {
		t.Fatalf("key from url: %q %v", k, ok)
	}
	if _, ok := s.KeyFromURL("https://lh3.googleusercontent.com/a/photo.png"); ok {
		t.Fatalf("foreign url must not map to a key")
	}

	s.cfg.PublicBaseURL = "https://proj.supabase.co/storage/v1/object/public/"
	if got := s.PublicURL("x.png"); got != "https://proj.supabase.co/storage/v1/object/public/avatars/x.png" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestAvatars_RejectsLargeFiles(t *testing.T) {
	s, err := NewAvatars(config.StorageConfig{Endpoint: "localhost:9000", Bucket: "avatars"})
	if err != nil {
		t.Fatalf("new avatars: %v", err)
	}
	_, err = s.PutAvatar(context.Background(), uuid.New(), "me.png", "image/png", strings.NewReader(""), maxAvatarBytes+1)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

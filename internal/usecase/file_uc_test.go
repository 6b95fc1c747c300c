package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func upload(name string, body []byte) UploadInput {
	return UploadInput{FileName: name, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		want    string
		wantErr bool
	}{
		{name: "png", body: pngHeader, want: "image/png"},
		{name: "pdf", body: []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj"), want: "application/pdf"},
		{name: "plain text", body: []byte("hello, world\n"), want: "text/plain"},
		{name: "windows executable", body: append([]byte("MZ\x90\x00\x03\x00\x00\x00"), make([]byte, 64)...), wantErr: true},
		{name: "empty", body: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r, err := detectType(upload("f", tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			replayed, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.body, replayed, "sniffed bytes are replayed")
		})
	}
}

func TestFileUsecase_Upload(t *testing.T) {
	ctx := context.Background()
	storage := new(MockFileStorage)
	uc := NewFileUsecase(storage, 32, time.Minute, logger.NewNop())

	_, err := uc.Upload(ctx, tenantActor(domain.RoleUser), "", upload("big.txt", []byte(strings.Repeat("a", 33))))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	storage.On("Upload", ctx, "org-1/files", "logo.png", "image/png", mock.Anything, int64(len(pngHeader))).
		Return(&domain.StoredObject{Key: "org-1/files/x.png", Size: int64(len(pngHeader)), ContentType: "image/png"}, nil)
	storage.On("PresignedURL", ctx, "org-1/files/x.png", time.Minute).Return("https://signed/x.png", nil)

	obj, err := uc.Upload(ctx, tenantActor(domain.RoleUser), "", upload("../../logo.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://signed/x.png", obj.URL)
	storage.AssertExpectations(t)
}

func TestFileUsecase_PresignedURLIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	storage := new(MockFileStorage)
	uc := NewFileUsecase(storage, 0, time.Minute, logger.NewNop())
	storage.On("PresignedURL", ctx, "org-1/files/a.pdf", time.Minute).Return("https://signed/a.pdf", nil)
	storage.On("PresignedURL", ctx, "org-2/files/b.pdf", time.Minute).Return("https://signed/b.pdf", nil)

	url, err := uc.PresignedURL(ctx, tenantActor(domain.RoleUser), "/org-1/files/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://signed/a.pdf", url)

	_, err = uc.PresignedURL(ctx, tenantActor(domain.RoleUser), "org-2/files/b.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.PresignedURL(ctx, tenantActor(domain.RoleUser), "org-1/../org-2/files/b.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	url, err = uc.PresignedURL(ctx, superActor(), "org-2/files/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://signed/b.pdf", url)
}

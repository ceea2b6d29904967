package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lentera-labs/campus-api/internal/models"
)

type storageStub struct {
	uploaded bytes.Buffer
	err      error
}

func (s *storageStub) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func newAvatarFixture(t *testing.T, maxSizeMB int) (AvatarService, *memoryUserRepo, *storageStub, models.User) {
	t.Helper()
	users := newMemoryUserRepo()
	user := users.seed(models.User{Username: "siswa", Name: "Siswa", Email: "siswa@campus.test", Role: models.RoleStudent})
	storage := &storageStub{}
	return NewAvatarService(storage, users, maxSizeMB, testLogger()), users, storage, user
}

func TestAvatarUpload(t *testing.T) {
	svc, users, _, user := newAvatarFixture(t, 5)

	file := buildFileHeader(t, "me.png", pngHeader)
	resp, err := svc.Upload(context.Background(), file, user.ID)
	require.NoError(t, err)
	require.Contains(t, resp.URL, "avatar-1.png")

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, resp.URL, stored.AvatarURL)
}

func TestAvatarUploadRejectsSize(t *testing.T) {
	svc, _, _, user := newAvatarFixture(t, 1)

	file := buildFileHeader(t, "huge.png", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err := svc.Upload(context.Background(), file, user.ID)
	require.ErrorIs(t, err, ErrAvatarTooLarge)
}

func TestAvatarUploadRejectsNonImage(t *testing.T) {
	svc, _, _, user := newAvatarFixture(t, 5)

	file := buildFileHeader(t, "notes.txt", []byte("plain text"))
	_, err := svc.Upload(context.Background(), file, user.ID)
	require.ErrorIs(t, err, ErrAvatarNotImage)
}

func TestAvatarUploadMissingFile(t *testing.T) {
	svc, _, _, user := newAvatarFixture(t, 5)

	_, err := svc.Upload(context.Background(), nil, user.ID)
	require.ErrorIs(t, err, ErrAvatarMissing)
}

func TestAvatarUploadStorageFailure(t *testing.T) {
	users := newMemoryUserRepo()
	user := users.seed(models.User{Username: "siswa", Name: "Siswa", Email: "siswa@campus.test", Role: models.RoleStudent})
	storage := &storageStub{err: errors.New("bucket unavailable")}
	svc := NewAvatarService(storage, users, 5, testLogger())

	file := buildFileHeader(t, "me.png", pngHeader)
	_, err := svc.Upload(context.Background(), file, user.ID)
	require.Error(t, err)

	stored, getErr := users.GetByID(context.Background(), user.ID)
	require.NoError(t, getErr)
	require.Empty(t, stored.AvatarURL, "failed upload must not change the profile")
}

func TestAvatarUploadUnknownUser(t *testing.T) {
	svc, _, _, _ := newAvatarFixture(t, 5)

	file := buildFileHeader(t, "me.png", pngHeader)
	_, err := svc.Upload(context.Background(), file, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

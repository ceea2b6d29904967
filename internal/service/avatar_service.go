package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/observability"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrAvatarTooLarge indicates the payload exceeded the configured limit.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum allowed size")
	// ErrAvatarNotImage indicates the payload is not an image.
	ErrAvatarNotImage = errors.New("avatar must be an image")
	// ErrAvatarMissing indicates no file was attached.
	ErrAvatarMissing = errors.New("avatar file is required")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AvatarService validates and stores profile pictures.
type AvatarService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, userID uint) (dto.UploadResponse, error)
}

type avatarService struct {
	storage FileStorage
	users   repository.UserRepository
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewAvatarService constructs the avatar service.
func NewAvatarService(storage FileStorage, users repository.UserRepository, maxSizeMB int, logger zerolog.Logger) AvatarService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &avatarService{
		storage: storage,
		users:   users,
		logger:  logger.With().Str("component", "avatar_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/lentera-labs/campus-api/internal/service/avatar"),
	}
}

func (s *avatarService) Upload(ctx context.Context, file *multipart.FileHeader, userID uint) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "avatar.store")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AvatarLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		span.RecordError(ErrAvatarMissing)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, ErrAvatarMissing
	}

	span.SetAttributes(
		attribute.String("avatar.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("avatar.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.AvatarRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAvatarTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrAvatarTooLarge
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UploadResponse{}, ErrUserNotFound
		}
		return dto.UploadResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.AvatarRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAvatarTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrAvatarTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("avatar.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		observability.AvatarRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrAvatarNotImage)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.UploadResponse{}, ErrAvatarNotImage
	}

	name := avatarFileName(userID, file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.AvatarRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.UploadResponse{}, err
	}

	user.AvatarURL = url
	if err := s.users.Update(ctx, &user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.UploadResponse{}, err
	}

	observability.AvatarUploads().WithLabelValues(mime.String()).Inc()
	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Uint("user_id", userID).Str("mime", mime.String()).Msg("avatar updated")

	return dto.UploadResponse{URL: url}, nil
}

func avatarFileName(userID uint, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("avatar-%d%s", userID, ext)
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

// AuditEntry describes one operation to record in the audit trail.
type AuditEntry struct {
	OperationType string
	Detail        string
	UserID        *uint
	UserRole      string
	IPAddress     string
	Metadata      map[string]any
}

// AuditService records and queries the append-only operation trail. Recording
// is best effort: a failed write never fails the operation it describes.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry)
	List(ctx context.Context, filter repository.SystemLogFilter) ([]dto.SystemLogResponse, error)
}

// auditEvent is the wire form of an entry published to the message broker
// for external consumers such as SIEM collectors.
type auditEvent struct {
	OperationType string         `json:"operation_type"`
	Detail        string         `json:"detail,omitempty"`
	UserID        *uint          `json:"user_id,omitempty"`
	UserRole      string         `json:"user_role,omitempty"`
	IPAddress     string         `json:"ip_address,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	RecordedAt    time.Time      `json:"recorded_at"`
}

type auditService struct {
	logs    repository.SystemLogRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAuditService builds the audit service. natsConn may be nil, in which
// case entries are only persisted and never published.
func NewAuditService(logs repository.SystemLogRepository, natsConn *nats.Conn, subject string, logger zerolog.Logger) AuditService {
	return &auditService{
		logs:    logs,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "audit_service").Logger(),
		now:     time.Now,
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	record := models.SystemLog{
		OperationType: entry.OperationType,
		Detail:        entry.Detail,
		UserID:        entry.UserID,
		UserRole:      entry.UserRole,
		IPAddress:     entry.IPAddress,
	}
	if len(entry.Metadata) > 0 {
		record.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.logs.Create(ctx, &record); err != nil {
		s.logger.Warn().Err(err).Str("operation_type", entry.OperationType).Msg("audit write failed")
		return
	}

	s.publish(entry)
}

func (s *auditService) publish(entry AuditEntry) {
	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(auditEvent{
		OperationType: entry.OperationType,
		Detail:        entry.Detail,
		UserID:        entry.UserID,
		UserRole:      entry.UserRole,
		IPAddress:     entry.IPAddress,
		Metadata:      entry.Metadata,
		RecordedAt:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("audit event encode failed")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("operation_type", entry.OperationType).Msg("audit event publish failed")
	}
}

func (s *auditService) List(ctx context.Context, filter repository.SystemLogFilter) ([]dto.SystemLogResponse, error) {
	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewSystemLogResponseSlice(entries), nil
}

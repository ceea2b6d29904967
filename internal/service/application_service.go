package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

var (
	// ErrApplicationNotFound indicates the requested application does not exist.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrApplicationProcessed indicates the application already left PENDING.
	ErrApplicationProcessed = errors.New("application already processed")
	// ErrDuplicateApplication indicates a pending application already exists
	// for the same student and class.
	ErrDuplicateApplication = errors.New("a pending application for this class already exists")
	// ErrAlreadyMember indicates the student already belongs to the class.
	ErrAlreadyMember = errors.New("student is already a member of this class")
	// ErrNotApplicationOwner indicates the caller did not file the application.
	ErrNotApplicationOwner = errors.New("only the applicant may cancel this application")
)

// ApplicationService drives the class-application workflow: a student applies,
// the owning teacher approves or rejects exactly once, and the student may
// cancel while the application is still pending.
type ApplicationService interface {
	Apply(ctx context.Context, studentID, classID uint, payload dto.ApplyRequest) (dto.ApplicationResponse, error)
	Process(ctx context.Context, applicationID uint, payload dto.ProcessApplicationRequest, teacherID uint) (dto.ApplicationResponse, error)
	BatchProcess(ctx context.Context, payload dto.BatchProcessRequest, teacherID uint) (dto.BatchProcessResponse, error)
	Cancel(ctx context.Context, applicationID, studentID uint) error
	ListForStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error)
	ListPendingForTeacher(ctx context.Context, teacherID uint) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	applications repository.ApplicationRepository
	classes      repository.ClassRepository
	users        repository.UserRepository
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewApplicationService builds the application workflow service.
func NewApplicationService(applications repository.ApplicationRepository, classes repository.ClassRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ApplicationService {
	return &applicationService{
		applications: applications,
		classes:      classes,
		users:        users,
		validator:    validate,
		logger:       logger.With().Str("component", "application_service").Logger(),
		now:          time.Now,
	}
}

func (s *applicationService) Apply(ctx context.Context, studentID, classID uint, payload dto.ApplyRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrUserNotFound
		}
		return dto.ApplicationResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.ApplicationResponse{}, ErrNotStudentRole
	}

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrClassNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	member, err := s.classes.IsMember(ctx, classID, studentID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if member {
		return dto.ApplicationResponse{}, ErrAlreadyMember
	}

	pending, err := s.applications.ExistsPending(ctx, studentID, classID)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	if pending {
		return dto.ApplicationResponse{}, ErrDuplicateApplication
	}

	application := models.ClassApplication{
		StudentID: studentID,
		ClassID:   classID,
		Status:    models.ApplicationPending,
		Message:   payload.Message,
	}
	if err := s.applications.Create(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application.Student = student
	application.Class = class
	s.logger.Info().Uint("application_id", application.ID).Uint("class_id", classID).Uint("student_id", studentID).Msg("class application filed")

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) Process(ctx context.Context, applicationID uint, payload dto.ProcessApplicationRequest, teacherID uint) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ApplicationResponse{}, err
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	if application.Class.TeacherID != teacherID {
		return dto.ApplicationResponse{}, ErrNotClassOwner
	}
	if !application.IsPending() {
		return dto.ApplicationResponse{}, ErrApplicationProcessed
	}

	handledAt := s.now()
	application.Status = payload.Status
	application.HandledAt = &handledAt

	// The repository re-checks the stored status inside the write, so a
	// racing second decision loses there even though the check above passed.
	switch payload.Status {
	case models.ApplicationApproved:
		if err := s.applications.Approve(ctx, &application); err != nil {
			switch {
			case errors.Is(err, repository.ErrApplicationNotPending):
				return dto.ApplicationResponse{}, ErrApplicationProcessed
			case errors.Is(err, repository.ErrDuplicateMembership):
				return dto.ApplicationResponse{}, ErrAlreadyMember
			}
			return dto.ApplicationResponse{}, err
		}
	case models.ApplicationRejected:
		application.RejectReason = payload.RejectReason
		if err := s.applications.Reject(ctx, &application); err != nil {
			if errors.Is(err, repository.ErrApplicationNotPending) {
				return dto.ApplicationResponse{}, ErrApplicationProcessed
			}
			return dto.ApplicationResponse{}, err
		}
	}

	s.logger.Info().
		Uint("application_id", application.ID).
		Str("status", application.Status).
		Uint("teacher_id", teacherID).
		Msg("class application processed")

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) BatchProcess(ctx context.Context, payload dto.BatchProcessRequest, teacherID uint) (dto.BatchProcessResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchProcessResponse{}, err
	}

	status := models.ApplicationApproved
	rejectReason := ""
	if payload.Action == "reject" {
		status = models.ApplicationRejected
		rejectReason = payload.RejectReason
	}

	// Each item is processed independently: one bad identifier must not
	// abort the rest of the batch.
	results := make([]dto.BatchItemResult, 0, len(payload.ApplicationIDs))
	for _, id := range payload.ApplicationIDs {
		item := dto.ProcessApplicationRequest{Status: status, RejectReason: rejectReason}
		processed, err := s.Process(ctx, id, item, teacherID)
		if err != nil {
			results = append(results, dto.BatchItemResult{ID: id, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, dto.BatchItemResult{ID: id, Success: true, Status: processed.Status})
	}

	return dto.BatchProcessResponse{Results: results, TotalProcessed: len(results)}, nil
}

func (s *applicationService) Cancel(ctx context.Context, applicationID, studentID uint) error {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if application.StudentID != studentID {
		return ErrNotApplicationOwner
	}
	if !application.IsPending() {
		return ErrApplicationProcessed
	}

	if err := s.applications.DeletePending(ctx, applicationID); err != nil {
		if errors.Is(err, repository.ErrApplicationNotPending) {
			return ErrApplicationProcessed
		}
		return err
	}

	s.logger.Info().Uint("application_id", applicationID).Uint("student_id", studentID).Msg("class application cancelled")
	return nil
}

func (s *applicationService) ListForStudent(ctx context.Context, studentID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

func (s *applicationService) ListPendingForTeacher(ctx context.Context, teacherID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.applications.ListPendingForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

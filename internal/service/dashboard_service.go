package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lentera-labs/campus-api/internal/dto"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

const recentActivityLimit = 5

// DashboardService aggregates headline numbers for teacher and student home
// screens. Results are cached briefly; a cache failure falls through to the
// database.
type DashboardService interface {
	TeacherDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error)
	StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	classes        repository.ClassRepository
	activities     repository.ActivityRepository
	goals          repository.GoalRepository
	participations repository.ParticipationRepository
	cache          *redis.Client
	cacheTTL       time.Duration
	logger         zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(
	classes repository.ClassRepository,
	activities repository.ActivityRepository,
	goals repository.GoalRepository,
	participations repository.ParticipationRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		classes:        classes,
		activities:     activities,
		goals:          goals,
		participations: participations,
		cache:          cache,
		cacheTTL:       ttl,
		logger:         logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) TeacherDashboard(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacherID)

	var cached dto.TeacherDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	var studentCount int64
	classSummaries := make([]dto.DashboardClass, 0, len(classes))
	for _, class := range classes {
		count, err := s.classes.CountStudents(ctx, class.ID)
		if err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		studentCount += count
		classSummaries = append(classSummaries, dto.DashboardClass{
			ID:           class.ID,
			Name:         class.Name,
			StudentCount: count,
		})
	}

	activityCount, err := s.activities.CountByCreator(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}
	goalCount, err := s.goals.CountByTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}
	recent, err := s.activities.ListRecentByCreator(ctx, teacherID, recentActivityLimit)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	response := dto.TeacherDashboardResponse{
		StudentCount:     studentCount,
		ActivityCount:    activityCount,
		GoalCount:        goalCount,
		Classes:          classSummaries,
		RecentActivities: dto.NewActivityResponseSlice(recent),
	}
	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

func (s *dashboardService) StudentDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	var cached dto.StudentDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	goalTotal, err := s.goals.CountByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	goalCompleted, err := s.goals.CountByStudentAndStatus(ctx, studentID, models.GoalCompleted)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	registered, err := s.participations.CountByUserAndStatus(ctx, studentID, models.ParticipationRegistered)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	completed, err := s.participations.CountByUserAndStatus(ctx, studentID, models.ParticipationCompleted)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	cancelled, err := s.participations.CountByUserAndStatus(ctx, studentID, models.ParticipationCancelled)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}
	classCount, err := s.classes.CountJoinedByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := dto.StudentDashboardResponse{
		GoalTotal:     goalTotal,
		GoalCompleted: goalCompleted,
		Registered:    registered,
		Completed:     completed,
		Cancelled:     cancelled,
		ClassCount:    classCount,
	}
	if goalTotal > 0 {
		response.GoalCompletionRate = float64(goalCompleted) / float64(goalTotal) * 100
	}

	s.writeCache(ctx, cacheKey, response)
	return response, nil
}

func (s *dashboardService) readCache(ctx context.Context, key string, target any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}
	s.logger.Debug().Str("key", key).Msg("dashboard cache hit")
	return true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
	}
}

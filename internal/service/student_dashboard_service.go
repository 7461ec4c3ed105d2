package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/khoabkhn-byte/quizdesk-api/internal/dto"
	"github.com/khoabkhn-byte/quizdesk-api/internal/models"
	"github.com/khoabkhn-byte/quizdesk-api/internal/repository"
)

// StudentDashboardService produces aggregated assignment progress per student.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	assignments repository.AssignmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewStudentDashboardService builds the dashboard aggregator. The cache client
// may be nil, in which case every request recomputes the summary.
func NewStudentDashboardService(assignments repository.AssignmentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		assignments: assignments,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%s", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	filter := repository.AssignmentFilter{StudentID: &studentID}
	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := buildDashboard(studentID, assignments)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func buildDashboard(studentID string, assignments []models.Assignment) dto.StudentDashboardResponse {
	response := dto.StudentDashboardResponse{StudentID: studentID}

	var scoreTotal int
	var scoredCount int

	for _, assignment := range assignments {
		response.Total++

		switch assignment.Status {
		case models.AssignmentStatusInProgress:
			response.InProgress++
		case models.AssignmentStatusCompleted:
			response.Completed++
			if assignment.Score != nil {
				scoreTotal += *assignment.Score
				scoredCount++
			}
		default:
			response.NotStarted++
		}
	}

	if scoredCount > 0 {
		average := float64(scoreTotal) / float64(scoredCount)
		response.AverageScore = &average
	}

	return response
}

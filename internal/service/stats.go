package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// StatsService computes the accuracy rollups served by the statistics
// endpoints. The repository returns raw counts; the percentage arithmetic
// lives here so it is identical for every consumer.
type StatsService struct {
	stats  repository.StatsRepository
	logger *slog.Logger
}

func NewStatsService(stats repository.StatsRepository, logger *slog.Logger) *StatsService {
	return &StatsService{stats: stats, logger: logger}
}

// UserStatistics aggregates the caller's graded sessions, overall and per
// unit (units ascending).
func (s *StatsService) UserStatistics(ctx context.Context, email string) (*model.UserStatistics, error) {
	overall, err := s.stats.UserOverallStats(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("aggregating overall stats: %w", err)
	}
	overall.Accuracy = accuracy(overall.Correct, overall.TotalQuestions)

	byUnit, err := s.stats.UserUnitStats(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("aggregating unit stats: %w", err)
	}

	return &model.UserStatistics{Overall: overall, ByUnit: byUnit}, nil
}

// AdminExerciseStatistics totals individual attempts across all users and
// breaks them down per non-admin user, most active first.
func (s *StatsService) AdminExerciseStatistics(ctx context.Context) (model.AdminExerciseStats, []model.UserAttemptStats, error) {
	totals, err := s.stats.AdminExerciseStats(ctx)
	if err != nil {
		return model.AdminExerciseStats{}, nil, fmt.Errorf("aggregating exercise stats: %w", err)
	}
	totals.Accuracy = accuracy(totals.CorrectAttempts, totals.TotalAttempts)

	perUser, err := s.stats.PerUserAttemptStats(ctx)
	if err != nil {
		return model.AdminExerciseStats{}, nil, fmt.Errorf("aggregating per-user stats: %w", err)
	}

	return totals, perUser, nil
}

// Overview returns the admin dashboard counters.
func (s *StatsService) Overview(ctx context.Context) (model.AdminOverview, error) {
	overview, err := s.stats.AdminOverview(ctx)
	if err != nil {
		return model.AdminOverview{}, fmt.Errorf("aggregating overview: %w", err)
	}
	return overview, nil
}

// accuracy returns 100*correct/total rounded to two decimals. A zero
// total substitutes 1 in the denominator, yielding 0 instead of a
// division fault.
func accuracy(correct, total int) float64 {
	if total == 0 {
		total = 1
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

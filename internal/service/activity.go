package service

import (
	"context"
	"strings"
	"time"

	"likes_service/internal/logger"
	"likes_service/internal/models"
	"likes_service/internal/repository"
)

// LogFilter narrows an activity listing by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SIGNUP", "SIGNIN", "PASSWORD_CHANGE", "LIKE", "UNLIKE"
}

type ActivityService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewActivityService(eventRepo repository.EventRepo, log *logger.Logger) *ActivityService {
	return &ActivityService{eventRepo: eventRepo, log: log}
}

var _ ActivityLog = (*ActivityService)(nil)

// Record appends e. Failures are logged and otherwise ignored so that the
// operation being recorded is never failed by its own audit trail.
func (s *ActivityService) Record(ctx context.Context, e models.AccountEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	e.Type = normalizeEventType(e.Type)
	if err := s.eventRepo.Append(ctx, e); err != nil && s.log != nil {
		s.log.Errorw("activity_record_failed", "user_id", e.UserID, "type", e.Type, "error", err)
	}
}

// List returns userID's events matching f, oldest first.
func (s *ActivityService) List(ctx context.Context, userID string, f LogFilter) ([]models.AccountEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, userID, from, to, typ)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", invalid("from", "invalid time range: from must be <= to")
	}

	return from, to, normalizeEventType(f.Type), nil
}

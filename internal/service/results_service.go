package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/stc-api/internal/models"
	"github.com/noah-isme/stc-api/internal/observability"
	"github.com/noah-isme/stc-api/internal/repository"
	"github.com/noah-isme/stc-api/internal/results"
)

var (
	// ErrResultNotFound is returned when a result id is not among the mentor's results.
	ErrResultNotFound = errors.New("result not found")
	// ErrMentorRequired is returned when no mentor identity was supplied.
	ErrMentorRequired = errors.New("mentor id is required")
)

// MentorResultsView is the grouped results listing for one mentor.
type MentorResultsView struct {
	Search string          `json:"search"`
	Total  int             `json:"total"`
	Groups []results.Group `json:"groups"`
}

// MentorResultsService serves submission records and graded results to mentors.
type MentorResultsService interface {
	ListMentorSubmissions(ctx context.Context, mentorID string) ([]results.Record, error)
	ListAllSubmissions(ctx context.Context, mentorID string) ([]results.Record, error)
	MentorResults(ctx context.Context, mentorID, search string) (MentorResultsView, error)
	MentorResult(ctx context.Context, mentorID, resultID string) (results.Result, error)
	InvalidateMentor(ctx context.Context, mentorID string) error
}

type mentorResultsService struct {
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewMentorResultsService builds the results aggregator. cache may be nil.
func NewMentorResultsService(submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) MentorResultsService {
	return &mentorResultsService{
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "mentor_results_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/stc-api/internal/service/results"),
		now:         time.Now,
	}
}

func (s *mentorResultsService) ListMentorSubmissions(ctx context.Context, mentorID string) ([]results.Record, error) {
	if strings.TrimSpace(mentorID) == "" {
		return nil, ErrMentorRequired
	}

	submissions, err := s.submissions.ListForMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	return toRecords(submissions, results.RecordFromSubmission), nil
}

// ListAllSubmissions returns the flat listing visible to the mentor, orphans included.
func (s *mentorResultsService) ListAllSubmissions(ctx context.Context, mentorID string) ([]results.Record, error) {
	if strings.TrimSpace(mentorID) == "" {
		return nil, ErrMentorRequired
	}

	submissions, err := s.submissions.ListVisibleToMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	return toRecords(submissions, results.FlatRecordFromSubmission), nil
}

func (s *mentorResultsService) MentorResults(ctx context.Context, mentorID, search string) (MentorResultsView, error) {
	spanCtx, span := s.tracer.Start(ctx, "results.mentor", trace.WithAttributes(
		attribute.String("mentor.id", mentorID),
		attribute.Bool("results.search", search != ""),
	))
	defer span.End()

	all, err := s.loadResults(spanCtx, mentorID)
	if err != nil {
		span.RecordError(err)
		return MentorResultsView{}, err
	}

	filtered := results.Filter(all, search)
	span.SetAttributes(attribute.Int("results.count", len(filtered)))

	return MentorResultsView{
		Search: search,
		Total:  len(filtered),
		Groups: results.GroupByTest(filtered),
	}, nil
}

func (s *mentorResultsService) MentorResult(ctx context.Context, mentorID, resultID string) (results.Result, error) {
	all, err := s.loadResults(ctx, mentorID)
	if err != nil {
		return results.Result{}, err
	}

	result, ok := results.Find(all, resultID)
	if !ok {
		return results.Result{}, ErrResultNotFound
	}

	return result, nil
}

func (s *mentorResultsService) InvalidateMentor(ctx context.Context, mentorID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, mentorResultsKey(mentorID)).Err()
}

// loadResults returns the mentor's normalized results, unfiltered. The cached
// copy is only ever replaced wholesale.
func (s *mentorResultsService) loadResults(ctx context.Context, mentorID string) ([]results.Result, error) {
	if strings.TrimSpace(mentorID) == "" {
		return nil, ErrMentorRequired
	}

	cacheKey := mentorResultsKey(mentorID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var normalized []results.Result
			if unmarshalErr := json.Unmarshal([]byte(cached), &normalized); unmarshalErr == nil {
				s.logger.Debug().Str("mentor_id", mentorID).Msg("mentor results cache hit")
				observability.ResultsCache().WithLabelValues("hit").Inc()
				return normalized, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read mentor results cache")
			observability.ResultsCache().WithLabelValues("error").Inc()
		}
	}
	observability.ResultsCache().WithLabelValues("miss").Inc()

	outcome := results.NewFetcher(mentorSource{service: s, mentorID: mentorID}, s.logger).Fetch(ctx)
	if outcome.Failure != nil {
		if len(outcome.Records) == 0 {
			return nil, outcome.Failure
		}
		s.logger.Warn().Err(outcome.Failure).Str("mentor_id", mentorID).Msg("mentor results served from fallback listing")
	}
	normalized := results.Normalize(outcome.Records, s.now())

	if s.cache != nil && outcome.Failure == nil {
		payload, err := json.Marshal(normalized)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store mentor results cache")
			}
		}
	}

	return normalized, nil
}

// mentorSource feeds the fetch protocol from the store: the mentor's own
// submissions first, then the broader listing that keeps orphans.
type mentorSource struct {
	service  *mentorResultsService
	mentorID string
}

func (m mentorSource) Primary(ctx context.Context) ([]results.Record, error) {
	return m.service.ListMentorSubmissions(ctx, m.mentorID)
}

func (m mentorSource) Fallback(ctx context.Context) ([]results.Record, error) {
	return m.service.ListAllSubmissions(ctx, m.mentorID)
}

func mentorResultsKey(mentorID string) string {
	return fmt.Sprintf("results:mentor:%s", mentorID)
}

func toRecords(submissions []models.Submission, convert func(models.Submission) results.Record) []results.Record {
	records := make([]results.Record, 0, len(submissions))
	for _, submission := range submissions {
		records = append(records, convert(submission))
	}
	return records
}

package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// AnalysisAPI is the subset of the API client used to score URLs.
type AnalysisAPI interface {
	Analyze(ctx context.Context, target, analysisType string) (*models.AnalysisResult, error)
}

// HistoryStore keeps the recent analyses of each user.
type HistoryStore interface {
	Save(ctx context.Context, entry models.HistoryEntry) error
	ForUser(ctx context.Context, user *models.User) []models.HistoryEntry
}

// AnalysisService scores URLs and remembers the outcomes.
//
// Contract:
//   - Analyze: validate the URL, submit it, wait for a result and record it
//     in the signed-in user's history.
//   - History: the signed-in user's recent analyses, newest first.
type AnalysisService interface {
	Analyze(ctx context.Context, target, analysisType string) (*models.AnalysisResult, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
}

type analysisService struct {
	api     AnalysisAPI
	session Session
	history HistoryStore
	log     logging.Logger
	now     func() time.Time
}

// NewAnalysisService builds an AnalysisService recording results in h.
func NewAnalysisService(a AnalysisAPI, s Session, h HistoryStore, log logging.Logger) AnalysisService {
	return &analysisService{api: a, session: s, history: h, log: log.With("service", "analysis"), now: time.Now}
}

func (s *analysisService) Analyze(ctx context.Context, target, analysisType string) (*models.AnalysisResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrMissingURL
	}
	if !validTarget(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, target)
	}
	analysisType = strings.TrimSpace(analysisType)
	if analysisType == "" {
		analysisType = models.DefaultAnalysisType
	}

	res, err := s.api.Analyze(ctx, target, analysisType)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", invalidateOn(ctx, s.session, s.log, err))
	}

	entry := models.HistoryEntry{
		URL:          target,
		Score:        res.Score,
		Grade:        res.Grade,
		AnalysisType: analysisType,
		CompletedAt:  s.now().UTC(),
	}
	if err := s.history.Save(ctx, entry); err != nil {
		s.log.Warn(ctx, "saving analysis to history failed", "error", err)
	}
	return res, nil
}

func (s *analysisService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, ErrLoginRequired
	}
	return s.history.ForUser(ctx, user), nil
}

func validTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

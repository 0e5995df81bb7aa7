package evaluation

import (
	"context"
	"fmt"
	"time"

	"review-eval/internal/models"
	"review-eval/internal/results"
	"review-eval/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Catalog interface {
	Paper(id string) (*models.Paper, error)
	IsAssigned(userID, paperID string) bool
}

type Service struct {
	catalog Catalog
	sink    results.Sink
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(catalog Catalog, sink results.Sink, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// Submission carries the selector values of one submitted form, keyed by
// models.PointKey.
type Submission struct {
	UserID    string
	SessionID string
	PaperID   string
	Ratings   map[string]string
}

// Form builds the rating page for a paper: reviews in the session's blind
// order, labelled A, B, ... by position.
func (s *Service) Form(ctx context.Context, userID, sessionID, paperID string) (*models.EvaluationForm, error) {
	if !s.catalog.IsAssigned(userID, paperID) {
		return nil, fmt.Errorf("%w: %s", ErrNotAssigned, paperID)
	}

	paper, err := s.catalog.Paper(paperID)
	if err != nil {
		return nil, err
	}
	if !paper.HasReviews() {
		return nil, fmt.Errorf("%w: %s", ErrNoReviews, paperID)
	}

	form := &models.EvaluationForm{
		Paper:        *paper,
		UserID:       userID,
		PDFAvailable: storage.Exists(paper.PDFPath),
		Grades:       models.Grades,
	}
	for i, variant := range BlindOrder(sessionID, paperID, paper.Variants) {
		form.Reviews = append(form.Reviews, models.NewReview(models.ReviewLabel(i), variant, paper.Reviews[variant]))
	}
	if form.PointCount() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoReviews, paperID)
	}
	return form, nil
}

// Submit validates that every displayed point carries a grade and appends one
// record per point. Nothing is written when validation fails.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.SubmitEvaluationResponse, error) {
	form, err := s.Form(ctx, sub.UserID, sub.SessionID, sub.PaperID)
	if err != nil {
		return nil, err
	}

	submissionID := uuid.New()
	ts := s.now().UTC()

	verr := &ValidationError{}
	records := make([]models.RatingRecord, 0, form.PointCount())
	for _, review := range form.Reviews {
		for _, block := range review.Sections {
			for _, pt := range block.Points {
				value := sub.Ratings[pt.Key]
				switch {
				case models.IsUnrated(value):
					verr.Missing = append(verr.Missing, pt.Key)
					continue
				case !models.IsGrade(value):
					verr.Invalid = append(verr.Invalid, pt.Key)
					continue
				}
				records = append(records, models.RatingRecord{
					SubmissionID: submissionID,
					Timestamp:    ts,
					UserID:       sub.UserID,
					PaperID:      form.Paper.ID,
					ReviewLabel:  review.Label,
					Variant:      review.Variant,
					Source:       form.Paper.Source,
					Section:      block.Section,
					PointIndex:   pt.Index,
					PointText:    pt.Text,
					Rating:       value,
				})
			}
		}
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		s.logger.Info("evaluation rejected",
			zap.String("user", sub.UserID),
			zap.String("paper_id", sub.PaperID),
			zap.Int("missing", len(verr.Missing)),
			zap.Int("invalid", len(verr.Invalid)),
		)
		return nil, verr
	}

	if err := s.sink.Append(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save ratings: %w", err)
	}

	s.logger.Info("evaluation saved",
		zap.String("submission_id", submissionID.String()),
		zap.String("user", sub.UserID),
		zap.String("paper_id", sub.PaperID),
		zap.Int("rows", len(records)),
	)
	return &models.SubmitEvaluationResponse{SubmissionID: submissionID, Rows: len(records)}, nil
}

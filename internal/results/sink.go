package results

import (
	"context"

	"review-eval/internal/models"

	"go.uber.org/zap"
)

// Sink persists the rows of one accepted submission.
type Sink interface {
	Append(ctx context.Context, records []models.RatingRecord) error
}

// MultiSink writes to a primary sink and best-effort mirrors. Only the
// primary decides whether a submission succeeded.
type MultiSink struct {
	primary Sink
	mirrors []Sink
	logger  *zap.Logger
}

func NewMultiSink(logger *zap.Logger, primary Sink, mirrors ...Sink) *MultiSink {
	return &MultiSink{primary: primary, mirrors: mirrors, logger: logger}
}

func (m *MultiSink) Append(ctx context.Context, records []models.RatingRecord) error {
	if err := m.primary.Append(ctx, records); err != nil {
		return err
	}
	for _, mirror := range m.mirrors {
		if err := mirror.Append(ctx, records); err != nil {
			m.logger.Error("failed to mirror ratings", zap.Int("rows", len(records)), zap.Error(err))
		}
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/pkg/jobs"
)

// InquiryNotifier delivers new-inquiry notices to the operations inbox. The
// inbox is currently the structured log; Recipient names who should act.
type InquiryNotifier struct {
	Recipient string
	logger    *zap.Logger
}

// NewInquiryNotifier constructs a notifier addressed to recipient.
func NewInquiryNotifier(recipient string, logger *zap.Logger) *InquiryNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryNotifier{Recipient: recipient, logger: logger}
}

// Handle is a jobs.Handler.
func (n *InquiryNotifier) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type != JobTypeInquiryNotification {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	inquiry, ok := job.Payload.(models.Inquiry)
	if !ok {
		return fmt.Errorf("job %s: payload is %T, want models.Inquiry", job.ID, job.Payload)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("new inquiry",
		zap.String("to", n.Recipient),
		zap.Int64("inquiry_id", inquiry.ID),
		zap.String("from", inquiry.Email),
		zap.String("subject", inquiry.Subject),
		zap.Int("attempt", job.Attempt))
	return nil
}

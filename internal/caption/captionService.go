package caption

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/pictopdf/internal/collection"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/domain/jobModel"
	"github.com/akolanti/pictopdf/internal/metrics"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

// Service is the public contract the worker calls. It hides the provider and
// the live collection so the worker stays decoupled from captioning logic.
type Service interface {
	ProcessCaption(ctx context.Context, job jobModel.Job) jobModel.Job
	ProcessCaptionAll(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	items    *collection.Collection
	provider Provider
	logger   *logger_i.Logger
}

// NewService constructor
func NewService(items *collection.Collection, provider Provider) Service {
	return &service{
		items:    items,
		provider: provider,
		logger:   logger_i.NewLogger("Caption Service :"),
	}
}

func (s *service) ProcessCaption(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "JobId", jobt.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("caption_single", time.Since(start)) }()

	if s.provider == nil {
		return s.jobError(jobt, nil, "CAPTION_PROVIDER_UNAVAILABLE", false)
	}

	item, ok := s.items.Get(jobt.JobPayload.ItemId)
	if !ok || item.Kind != itemModel.KindImage {
		jobt.Error = jobModel.JobError{
			Code:    http.StatusNotFound,
			Message: "Item not found or not an image",
			Retry:   false,
		}
		jobt.Status = jobModel.JobStatusError
		return jobt
	}

	caption, failed := s.captionOne(ctx, inMethodLogger, item)
	jobt.JobPayload.Caption = caption
	if failed {
		jobt.JobPayload.Failed = 1
	} else {
		jobt.JobPayload.Captioned = 1
	}
	jobt.CurrentStep = jobModel.Complete
	jobt.Status = jobModel.JobStatusComplete
	return jobt
}

// ProcessCaptionAll captions every eligible image, one provider call at a
// time. Eligibility is resolved here rather than at enqueue time so items
// removed while the job was queued are never captioned.
func (s *service) ProcessCaptionAll(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "JobId", jobt.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("caption_all", time.Since(start)) }()

	if s.provider == nil {
		return s.jobError(jobt, nil, "CAPTION_PROVIDER_UNAVAILABLE", false)
	}

	for _, id := range s.items.EligibleForCaption() {
		item, ok := s.items.Get(id)
		if !ok {
			continue
		}
		_, failed := s.captionOne(ctx, inMethodLogger, item)
		if failed {
			jobt.JobPayload.Failed++
		} else {
			jobt.JobPayload.Captioned++
		}
	}

	jobt.CurrentStep = jobModel.Complete
	jobt.Status = jobModel.JobStatusComplete
	return jobt
}

// captionOne runs one provider call with the pending flag raised for its
// duration. A failed call leaves the item uncaptioned so a later pass can
// retry it, and one bad image never blocks the rest of a batch.
func (s *service) captionOne(ctx context.Context, log *logger_i.Logger, item itemModel.ContentItem) (string, bool) {
	s.items.SetCaptionPending(item.Id, true)
	defer s.items.SetCaptionPending(item.Id, false)

	callCtx, cancel := context.WithTimeout(ctx, config.CaptionTimeout)
	defer cancel()

	caption, err := s.provider.Caption(callCtx, item.Raster, item.MimeType)
	if err != nil {
		log.Error("Caption call failed", "error", &itemModel.CaptioningError{ItemId: item.Id, Err: err})
		return "", true
	}

	s.items.SetCaption(item.Id, caption)
	return caption, false
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

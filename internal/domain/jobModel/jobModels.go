package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	CaptionInit  InternalStatus = "Init"
	ProviderCall InternalStatus = "ProviderCall"
	ApplyCaption InternalStatus = "ApplyCaption"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeCaption    JobType = "Caption"
	JobTypeCaptionAll JobType = "CaptionAll"
)

// Job is one unit of background captioning work. Single-item jobs carry the
// item id; caption-all jobs resolve their eligible items at execution time so
// the snapshot reflects removals that happened while the job sat in the queue.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	ItemId string `json:"item_id,omitempty"`

	//filled in on completion
	Caption   string `json:"caption,omitempty"`
	Captioned int    `json:"captioned,omitempty"` //caption-all: how many items got a caption
	Failed    int    `json:"failed,omitempty"`    //caption-all: how many provider calls failed
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/pictopdf/internal/api"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("jobs/%s", id), //pass "jobs/job.Id"
	}
}

func ToItemResponse(item itemModel.ContentItem) api.ItemResponse {
	return api.ItemResponse{
		Id:             item.Id,
		SourceName:     item.SourceName,
		Kind:           string(item.Kind),
		MimeType:       item.MimeType,
		Width:          item.Width,
		Height:         item.Height,
		Caption:        item.Caption,
		CaptionPending: item.CaptionPending,
		SheetCount:     len(item.Sheets),
	}
}

func ToItemListResponse(items []itemModel.ContentItem) api.ItemListResponse {
	out := api.ItemListResponse{Items: make([]api.ItemResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, ToItemResponse(item))
	}
	return out
}

func ToIngestResponse(items []itemModel.ContentItem, failed int) api.IngestResponse {
	res := api.IngestResponse{
		Added:  len(items),
		Failed: failed,
		Items:  make([]api.ItemResponse, 0, len(items)),
	}
	for _, item := range items {
		res.Items = append(res.Items, ToItemResponse(item))
	}
	return res
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:         string(job.Status),
		CaptionOutcome: ToCaptionResult(job),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToCaptionResult(job jobModel.Job) *api.CaptionResult {
	if job.Status != jobModel.JobStatusComplete {
		return nil
	}

	return &api.CaptionResult{
		ItemId:    job.JobPayload.ItemId,
		Caption:   job.JobPayload.Caption,
		Captioned: job.JobPayload.Captioned,
		Failed:    job.JobPayload.Failed,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

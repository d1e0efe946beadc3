package api

import (
	"time"

	"github.com/akolanti/pictopdf/internal/editor"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type ItemResponse struct {
	Id             string `json:"id" example:"item_cz109"`
	SourceName     string `json:"source_name" example:"vacaciones.png"`
	Kind           string `json:"kind" example:"image"`
	MimeType       string `json:"mime_type,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Caption        string `json:"caption,omitempty"`
	CaptionPending bool   `json:"caption_pending,omitempty"`
	SheetCount     int    `json:"sheet_count,omitempty"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

type IngestResponse struct {
	Added  int            `json:"added"`
	Failed int            `json:"failed"`
	Items  []ItemResponse `json:"items"`
}

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type CaptionResult struct {
	ItemId    string `json:"item_id,omitempty"`
	Caption   string `json:"caption,omitempty"`
	Captioned int    `json:"captioned"`
	Failed    int    `json:"failed"`
}

type Result struct {
	Status         string         `json:"status"`
	CaptionOutcome *CaptionResult `json:"caption_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type MoveRequest struct {
	Delta int `json:"delta" validate:"required"` //-1 moves toward the front, +1 toward the back
}

type EditRequest struct {
	editor.EditState
	LockAspect bool   `json:"lockAspect,omitempty"`
	Driver     string `json:"driver,omitempty"` //"width" or "height", which resize field the user typed
}

type SettingsPayload struct {
	PageSize        string  `json:"pageSize"`
	Orientation     string  `json:"orientation"`
	IncludeCaptions bool    `json:"includeDescriptions"`
	Quality         float64 `json:"quality"`
	Layout          string  `json:"layout,omitempty"`
}

package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/pictopdf/internal/adapter"
	"github.com/akolanti/pictopdf/internal/adapter/utils"
	"github.com/akolanti/pictopdf/internal/collection"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/domain/jobModel"
	"github.com/akolanti/pictopdf/internal/job"
	"github.com/akolanti/pictopdf/internal/metrics"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
	items   *collection.Collection
}

func InitJobHandler(jobService *job.Service, items *collection.Collection) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, items: items}

		logJH = logger_i.NewLogger("JobHandler")
		logJH.Info("Starting job handler")
	})

}

type newJobData struct {
	id      string
	itemId  string
	jobType jobModel.JobType
	traceId string
}

// CaptionItemHandler queues a caption job for one image item and answers with
// the job id to poll.
func CaptionItemHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logJH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	id := utils.GetChiURLParam(r, "id")
	item, ok := handlerInstance.items.Get(id)
	if !ok || item.Kind != itemModel.KindImage {
		WriteErrorResponse(w, http.StatusNotFound, id, "Image item not found")
		return
	}

	enqueueCaptionJob(w, r, newJobData{
		id:      utils.GetNewUUID(),
		itemId:  id,
		jobType: jobModel.JobTypeCaption,
	})
}

// CaptionAllHandler queues one batch job covering every image that has no
// caption yet. Eligibility is re-checked when the job runs.
func CaptionAllHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logJH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	enqueueCaptionJob(w, r, newJobData{
		id:      utils.GetNewUUID(),
		jobType: jobModel.JobTypeCaptionAll,
	})
}

func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	result, isFound := validateId(idString, traceId)

	logJH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func enqueueCaptionJob(w http.ResponseWriter, r *http.Request, newJob newJobData) {
	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	newJob.traceId = traceId

	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = newJob.jobType
	_job.JobPayload.ItemId = newJob.itemId
	_job.CurrentStep = jobModel.CaptionInit

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//a batch caption job gets its own worker right away
	//captioning walks every image sequentially - external provider call per image
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeCaptionAll {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

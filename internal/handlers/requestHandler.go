package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/akolanti/pictopdf/internal/adapter"
	"github.com/akolanti/pictopdf/internal/adapter/utils"
	"github.com/akolanti/pictopdf/internal/api"
	"github.com/akolanti/pictopdf/internal/collection"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/domain/itemModel"
	"github.com/akolanti/pictopdf/internal/editor"
	"github.com/akolanti/pictopdf/internal/export"
	"github.com/akolanti/pictopdf/internal/ingest"
	"github.com/akolanti/pictopdf/internal/metrics"
	"github.com/akolanti/pictopdf/pkg/logger_i"
)

var (
	reqHandlerInstance *RequestHandler //private singleton
	onceRH             sync.Once
	logRH              *logger_i.Logger
)

type RequestHandler struct {
	items    *collection.Collection
	previews *export.Manager
	settings itemModel.SettingsStore
}

func InitRequestHandler(items *collection.Collection, previews *export.Manager, settings itemModel.SettingsStore) {
	onceRH.Do(func() {
		reqHandlerInstance = &RequestHandler{items: items, previews: previews, settings: settings}
		logRH = logger_i.NewLogger("RequestHandler")
		logRH.Info("Starting request handler")
	})
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostFilesHandler receives a multipart batch of files and turns each into a
// content item. Files that cannot be decoded are dropped; the response reports
// how many made it and how many did not, in the selection order of the upload.
func PostFilesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "files field is required")
		return
	}

	var files []ingest.File
	for _, header := range fileHeaders {
		reader, err := header.Open()
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, header.Filename, "Could not read upload")
			return
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, header.Filename, "Could not read upload")
			return
		}
		files = append(files, ingest.File{Name: header.Filename, Data: data})
	}

	res := ingest.Process(r.Context(), files)
	reqHandlerInstance.items.AddAll(res.Items)
	reqHandlerInstance.previews.Invalidate()
	metrics.CountIngestedFiles(len(res.Items), res.Failed)

	writeJsonResponse(w, http.StatusCreated, adapter.ToIngestResponse(res.Items, res.Failed))
}

func GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToItemListResponse(reqHandlerInstance.items.Snapshot()))
}

func DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if !reqHandlerInstance.items.Remove(id) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Item not found")
		return
	}
	reqHandlerInstance.previews.Invalidate()

	writeJsonResponse(w, http.StatusOK, adapter.ToItemListResponse(reqHandlerInstance.items.Snapshot()))
}

// MoveItemHandler swaps an item with its neighbor. A move past either end is a
// no-op and still answers with the current order.
func MoveItemHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	var requestData api.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || (requestData.Delta != -1 && requestData.Delta != 1) {
		logRH.Warn("Bad Move Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, id, "delta must be -1 or 1")
		return
	}

	index := indexOf(reqHandlerInstance.items.Snapshot(), id)
	if index < 0 {
		WriteErrorResponse(w, http.StatusNotFound, id, "Item not found")
		return
	}

	if reqHandlerInstance.items.Move(index, requestData.Delta) {
		reqHandlerInstance.previews.Invalidate()
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToItemListResponse(reqHandlerInstance.items.Snapshot()))
}

// EditItemHandler applies one edit pass to an image item and stores the result
// as the item's new raster.
func EditItemHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	var requestData api.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Edit Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}

	item, ok := reqHandlerInstance.items.Get(id)
	if !ok || item.Kind != itemModel.KindImage {
		WriteErrorResponse(w, http.StatusNotFound, id, "Image item not found")
		return
	}

	state := requestData.EditState
	if requestData.LockAspect && state.Resize != nil {
		locked := editor.ApplyAspectLock(item.Width, item.Height, *state.Resize, requestData.Driver)
		state.Resize = &locked
	}

	result, err := editor.ApplyEdits(item.Raster, state)
	if err != nil {
		var dimErr *itemModel.InvalidDimensionsError
		if errors.As(err, &dimErr) {
			WriteErrorResponse(w, http.StatusBadRequest, id, dimErr.Error())
			return
		}
		logRH.Error("Edit failed", "id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Edit failed")
		return
	}

	reqHandlerInstance.items.UpdateImage(id, result.Raster, result.MimeType, result.Width, result.Height)
	reqHandlerInstance.previews.Invalidate()

	updated, _ := reqHandlerInstance.items.Get(id)
	writeJsonResponse(w, http.StatusOK, adapter.ToItemResponse(updated))
}

func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	settings, ok := reqHandlerInstance.settings.LoadSettings(r.Context())
	if !ok {
		settings = itemModel.DefaultSettings()
	}

	writeJsonResponse(w, http.StatusOK, api.SettingsPayload{
		PageSize:        settings.PageSize,
		Orientation:     settings.Orientation,
		IncludeCaptions: settings.IncludeCaptions,
		Quality:         settings.Quality,
		Layout:          reqHandlerInstance.settings.LoadLayoutPref(r.Context()),
	})
}

func PutSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.SettingsPayload
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Settings Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}

	settings := itemModel.PdfSettings{
		PageSize:        requestData.PageSize,
		Orientation:     requestData.Orientation,
		IncludeCaptions: requestData.IncludeCaptions,
		Quality:         requestData.Quality,
	}.Normalized()

	if err := reqHandlerInstance.settings.SaveSettings(r.Context(), settings); err != nil {
		logRH.Error("Failed to save settings", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Could not persist settings")
		return
	}
	if requestData.Layout != "" {
		if err := reqHandlerInstance.settings.SaveLayoutPref(r.Context(), requestData.Layout); err != nil {
			logRH.Error("Failed to save layout preference", "error", err)
		}
	}
	reqHandlerInstance.previews.Invalidate()

	requestData.PageSize = settings.PageSize
	requestData.Orientation = settings.Orientation
	requestData.Quality = settings.Quality
	writeJsonResponse(w, http.StatusOK, requestData)
}

// ExportHandler serves the assembled document as a download. Preview and
// export read the same serialized bytes, only the disposition differs.
func ExportHandler(w http.ResponseWriter, r *http.Request) {
	servePdf(w, r, `attachment; filename="`+config.ExportFileName+`"`)
}

func PreviewHandler(w http.ResponseWriter, r *http.Request) {
	servePdf(w, r, "inline")
}

func servePdf(w http.ResponseWriter, r *http.Request, disposition string) {
	if !validateContext(r.Context()) {
		return
	}

	doc := reqHandlerInstance.previews.Document(r.Context())
	data, err := doc.Bytes()
	if err != nil {
		logRH.Error("Export failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logRH.Error("Couldn't write pdf response :", "error", err)
	}
}

func indexOf(items []itemModel.ContentItem, id string) int {
	for i, item := range items {
		if item.Id == id {
			return i
		}
	}
	return -1
}

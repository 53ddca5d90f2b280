package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"econfetch/internal/fetcher"
	"econfetch/internal/model"
	"econfetch/internal/registry"
	"econfetch/internal/store"
	"econfetch/pkg/utils"

	"github.com/google/uuid"
)

// Handler serves the fetch-job API over a shared orchestrator and
// registry.
type Handler struct {
	Orchestrator *fetcher.Orchestrator
	Registry     *registry.Registry
	JobTimeout   time.Duration
}

// FetchPayload is the body of POST /api/v1/fetches.
type FetchPayload struct {
	Dataset    string `json:"dataset"`
	Category   string `json:"category"`
	Start      string `json:"start"`
	End        string `json:"end"`
	UseCache   bool   `json:"use_cache"`
	MaxRetries int    `json:"max_retries"`
}

// CreateFetch starts a new dataset fetch job
// @Summary Create a fetch job
// @Description Start fetching a dataset; the job runs asynchronously and persists its result
// @Tags fetches
// @Accept json
// @Produce json
// @Param fetch body FetchPayload true "Fetch request"
// @Success 200 {object} map[string]interface{} "Fetch created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /fetches [post]
func (h *Handler) CreateFetch(w http.ResponseWriter, r *http.Request) {
	var payload FetchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Dataset == "" {
		http.Error(w, "Dataset is required", http.StatusBadRequest)
		return
	}

	start, err := utils.ParseDate(payload.Start)
	if err != nil {
		http.Error(w, "Invalid start date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := utils.ParseDate(payload.End)
	if err != nil {
		http.Error(w, "Invalid end date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	req := model.DatasetRequest{
		Dataset:    payload.Dataset,
		Category:   payload.Category,
		Range:      model.DateRange{Start: start, End: end},
		UseCache:   payload.UseCache,
		Quiet:      true, // progress goes to the job record, not server stdout
		MaxRetries: payload.MaxRetries,
	}
	req.Normalize()

	fetchID := uuid.New().String()
	if err := store.SaveFetch(fetchID, req); err != nil {
		http.Error(w, "Failed to save fetch", http.StatusInternalServerError)
		return
	}

	timeout := h.JobTimeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		store.UpdateFetchStatus(fetchID, "running")
		result, err := h.Orchestrator.Fetch(ctx, req)
		if err != nil {
			store.UpdateFetchStatus(fetchID, "failed")
			store.SaveFetchError(fetchID, err)
			return
		}
		if err := store.SaveResult(fetchID, result); err != nil {
			store.UpdateFetchStatus(fetchID, "failed")
			store.SaveFetchError(fetchID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Fetch created",
		"fetchID":   fetchID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListFetches retrieves all fetch jobs
// @Summary List fetch jobs
// @Tags fetches
// @Produce json
// @Success 200 {array} map[string]interface{} "List of fetches"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /fetches [get]
func (h *Handler) ListFetches(w http.ResponseWriter, r *http.Request) {
	fetches, err := store.ListFetches()
	if err != nil {
		http.Error(w, "Failed to fetch jobs", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fetches)
}

// GetFetch retrieves one fetch job with its provenance
// @Summary Get fetch job
// @Tags fetches
// @Produce json
// @Param id path string true "Fetch ID"
// @Success 200 {object} map[string]interface{} "Fetch details"
// @Failure 404 {object} map[string]interface{} "Fetch not found"
// @Router /fetches/{id} [get]
func (h *Handler) GetFetch(w http.ResponseWriter, r *http.Request) {
	fetchID, ok := extractID(w, r, "/api/v1/fetches/", "")
	if !ok {
		return
	}
	job, err := store.GetFetch(fetchID)
	if err != nil {
		http.Error(w, "Fetch not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetFetchRows retrieves the persisted result rows of a fetch
// @Summary Get fetch rows
// @Tags fetches
// @Produce json
// @Param id path string true "Fetch ID"
// @Param limit query int false "Max rows to return"
// @Success 200 {object} map[string]interface{} "Result rows"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /fetches/{id}/rows [get]
func (h *Handler) GetFetchRows(w http.ResponseWriter, r *http.Request) {
	fetchID, ok := extractID(w, r, "/api/v1/fetches/", "/rows")
	if !ok {
		return
	}

	limit := 1000
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := store.GetResultRows(fetchID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve rows", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"fetch_id": fetchID,
		"rows":     rows,
		"count":    len(rows),
		"limit":    limit,
	})
}

// GetFetchErrors retrieves errors recorded for a fetch
// @Summary Get fetch errors
// @Tags fetches
// @Produce json
// @Param id path string true "Fetch ID"
// @Success 200 {object} map[string]interface{} "Fetch errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /fetches/{id}/errors [get]
func (h *Handler) GetFetchErrors(w http.ResponseWriter, r *http.Request) {
	fetchID, ok := extractID(w, r, "/api/v1/fetches/", "/errors")
	if !ok {
		return
	}
	errs, err := store.GetFetchErrors(fetchID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"fetch_id": fetchID,
		"errors":   errs,
		"count":    len(errs),
	})
}

// DeleteFetch deletes a fetch job and its persisted rows
// @Summary Delete fetch job
// @Tags fetches
// @Produce json
// @Param id path string true "Fetch ID"
// @Success 200 {object} map[string]interface{} "Fetch deleted"
// @Failure 404 {object} map[string]interface{} "Fetch not found"
// @Router /fetches/{id} [delete]
func (h *Handler) DeleteFetch(w http.ResponseWriter, r *http.Request) {
	fetchID, ok := extractID(w, r, "/api/v1/fetches/", "")
	if !ok {
		return
	}
	if _, err := store.GetFetch(fetchID); err != nil {
		http.Error(w, "Fetch not found", http.StatusNotFound)
		return
	}
	if err := store.DeleteFetch(fetchID); err != nil {
		http.Error(w, "Failed to delete fetch", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Fetch deleted",
		"fetch_id": fetchID,
	})
}

// ListDatasets returns the dataset catalog
// @Summary List datasets
// @Tags datasets
// @Produce json
// @Success 200 {array} map[string]interface{} "Datasets"
// @Router /datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	var out []map[string]interface{}
	for _, name := range h.Registry.Names() {
		ds, _ := h.Registry.Get(name)
		out = append(out, map[string]interface{}{
			"name":        ds.Name,
			"description": ds.Description,
			"categories":  ds.Categories(),
			"items":       len(ds.Items),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// GetDataset returns one dataset's items and categories
// @Summary Get dataset
// @Tags datasets
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} registry.Dataset "Dataset detail"
// @Failure 404 {object} map[string]interface{} "Dataset not found"
// @Router /datasets/{name} [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name, ok := extractID(w, r, "/api/v1/datasets/", "")
	if !ok {
		return
	}
	ds, found := h.Registry.Get(name)
	if !found {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ds)
}

// extractID pulls the path segment between prefix and suffix, writing a
// 400 response when the path does not match.
func extractID(w http.ResponseWriter, r *http.Request, prefix, suffix string) (string, bool) {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}
	id := path[len(prefix) : len(path)-len(suffix)]
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

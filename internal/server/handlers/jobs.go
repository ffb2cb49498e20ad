package handlers

import (
	"net/http"

	"funcplane/pkg/api"
)

// ListJobs handles GET /jobs.
// Jobs come back in insertion order, each exactly once.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	records, err := h.emulator.JobRecords(r.Context())
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	resp := api.ListJobsResponse{Jobs: make([]api.JobResponse, 0, len(records))}
	for _, rec := range records {
		resp.Jobs = append(resp.Jobs, api.JobResponse{
			ID:     rec.ID,
			Title:  rec.Title,
			Status: rec.Status,
			Result: rec.Result,
		})
	}
	h.respondJson(w, http.StatusOK, resp)
}

// GetJob handles GET /jobs/{id}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	rec, err := h.emulator.JobRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, api.JobResponse{
		ID:     rec.ID,
		Title:  rec.Title,
		Status: rec.Status,
		Result: rec.Result,
	})
}

// GetLogs handles GET /jobs/{id}/logs.
// Returns the captured subprocess output.
func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.emulator.Logs(r.Context(), r.PathValue("id"))
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, api.GetLogsResponse{Logs: logs})
}

// StopJob handles POST /jobs/{id}/stop.
// Runs are synchronous, so this only acknowledges that the job is done.
func (h *Handlers) StopJob(w http.ResponseWriter, r *http.Request) {
	msg := h.emulator.Stop(r.PathValue("id"))
	h.respondJson(w, http.StatusOK, api.StopJobResponse{Message: msg})
}

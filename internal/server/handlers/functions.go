package handlers

import (
	"encoding/json"
	"net/http"

	"funcplane/internal/client"
	"funcplane/pkg/api"
)

// RegisterFunction handles POST /functions.
// It validates the definition and stores it in the registry.
func (h *Handlers) RegisterFunction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterFunctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Entrypoint == "" {
		h.httpError(w, "Title and Entrypoint are required", http.StatusBadRequest)
		return
	}

	title, err := h.emulator.Register(ctx, client.Definition{
		Title:        req.Title,
		Provider:     req.Provider,
		Entrypoint:   req.Entrypoint,
		WorkingDir:   req.WorkingDir,
		EnvVars:      req.EnvVars,
		Dependencies: req.Dependencies,
	})
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, api.RegisterFunctionResponse{Title: title})
}

// ListFunctions handles GET /functions.
// It returns every registration in order, duplicates included.
func (h *Handlers) ListFunctions(w http.ResponseWriter, r *http.Request) {
	fns, err := h.emulator.Functions(r.Context())
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	resp := api.ListFunctionsResponse{Functions: make([]api.FunctionResponse, 0, len(fns))}
	for _, fn := range fns {
		resp.Functions = append(resp.Functions, functionResponse(fn))
	}
	h.respondJson(w, http.StatusOK, resp)
}

// GetFunction handles GET /functions/{title}.
// With duplicate titles the most recent registration is returned.
func (h *Handlers) GetFunction(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	fn, err := h.emulator.Function(r.Context(), title, r.URL.Query().Get("provider"))
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, functionResponse(fn))
}

// RunFunction handles POST /functions/{title}/run.
// The response is written only after the subprocess exits, so it already
// carries the terminal status and the extracted result.
func (h *Handlers) RunFunction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	title := r.PathValue("title")

	var req api.RunFunctionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.httpError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	job, err := h.emulator.Run(ctx, title, req.Arguments)
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	status, err := job.Status(ctx)
	if err != nil {
		h.emulatorError(w, err)
		return
	}
	result, err := job.Result(ctx)
	if err != nil {
		h.emulatorError(w, err)
		return
	}

	h.respondJson(w, http.StatusOK, api.RunFunctionResponse{
		JobID:  job.ID(),
		Status: status,
		Result: result,
	})
}

func functionResponse(fn *client.Function) api.FunctionResponse {
	return api.FunctionResponse{
		Title:        fn.Title(),
		Provider:     fn.Provider(),
		Entrypoint:   fn.Entrypoint(),
		WorkingDir:   fn.WorkingDir(),
		EnvVars:      fn.EnvVars(),
		Dependencies: fn.Dependencies(),
	}
}

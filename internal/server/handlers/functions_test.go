package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"funcplane/internal/runtime"
	"funcplane/pkg/api"
)

func TestRegisterFunction(t *testing.T) {
	workingDir := writeEntrypoint(t)

	validReq := api.RegisterFunctionRequest{
		Title:      "demo-fn",
		Entrypoint: "main.py",
		WorkingDir: workingDir,
	}
	validBody, _ := json.Marshal(validReq)

	missingEntrypoint, _ := json.Marshal(api.RegisterFunctionRequest{
		Title:      "ghost",
		Entrypoint: "nope.py",
		WorkingDir: workingDir,
	})

	tests := []struct {
		name           string
		body           []byte
		expectedStatus int
		expectedInBody string
	}{
		{
			name:           "Success",
			body:           validBody,
			expectedStatus: http.StatusOK,
			expectedInBody: "demo-fn",
		},
		{
			name:           "Invalid JSON",
			body:           []byte(`{invalid-json}`),
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Invalid request body",
		},
		{
			name:           "Missing Required Fields",
			body:           []byte(`{"title": "", "entrypoint": ""}`),
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "Title and Entrypoint are required",
		},
		{
			name:           "Entrypoint Does Not Exist",
			body:           missingEntrypoint,
			expectedStatus: http.StatusBadRequest,
			expectedInBody: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandlers(t, runtime.Result{})

			req := httptest.NewRequest(http.MethodPost, "/functions", bytes.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.RegisterFunction(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					rr.Code, tt.expectedStatus)
			}
			if tt.expectedInBody != "" && !strings.Contains(rr.Body.String(), tt.expectedInBody) {
				t.Errorf("handler returned unexpected body: got %v want substring %v",
					rr.Body.String(), tt.expectedInBody)
			}
		})
	}
}

func TestListFunctions(t *testing.T) {
	h, em := newTestHandlers(t, runtime.Result{})
	workingDir := writeEntrypoint(t)

	mustRegister(t, em, "first-fn", workingDir)
	mustRegister(t, em, "second-fn", workingDir)
	mustRegister(t, em, "first-fn", workingDir)

	req := httptest.NewRequest(http.MethodGet, "/functions", nil)
	rr := httptest.NewRecorder()
	h.ListFunctions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp api.ListFunctionsResponse
	decodeBody(t, rr.Body, &resp)

	// Duplicate registrations stay in the listing.
	if len(resp.Functions) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(resp.Functions))
	}
	titles := []string{resp.Functions[0].Title, resp.Functions[1].Title, resp.Functions[2].Title}
	want := []string{"first-fn", "second-fn", "first-fn"}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], titles[i])
		}
	}
}

func TestGetFunction(t *testing.T) {
	h, em := newTestHandlers(t, runtime.Result{})
	mustRegister(t, em, "lookup-fn", writeEntrypoint(t))

	tests := []struct {
		name           string
		title          string
		expectedStatus int
		expectedInBody string
	}{
		{"Found", "lookup-fn", http.StatusOK, "lookup-fn"},
		{"Not Found", "missing-fn", http.StatusNotFound, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/functions/"+tt.title, nil)
			req.SetPathValue("title", tt.title)
			rr := httptest.NewRecorder()
			h.GetFunction(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.expectedInBody) {
				t.Errorf("expected body to contain %q, got %s", tt.expectedInBody, rr.Body.String())
			}
		})
	}
}

func TestRunFunction(t *testing.T) {
	stdout := fmt.Sprintf("starting\n%s\n", "Saved Result:7:End Saved Result")
	h, em := newTestHandlers(t, runtime.Result{ExitCode: 0, Stdout: stdout})
	mustRegister(t, em, "run-fn", writeEntrypoint(t))

	body := []byte(`{"arguments": {"shots": 100}}`)
	req := httptest.NewRequest(http.MethodPost, "/functions/run-fn/run", bytes.NewReader(body))
	req.SetPathValue("title", "run-fn")
	rr := httptest.NewRecorder()
	h.RunFunction(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp api.RunFunctionResponse
	decodeBody(t, rr.Body, &resp)
	if resp.JobID == "" {
		t.Error("expected a job id")
	}
	if resp.Status != api.JobStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", resp.Status)
	}
	if resp.Result != "7" {
		t.Errorf("expected result 7, got %q", resp.Result)
	}
}

func TestRunFunction_EmptyBody(t *testing.T) {
	h, em := newTestHandlers(t, runtime.Result{ExitCode: 0})
	mustRegister(t, em, "bare-fn", writeEntrypoint(t))

	req := httptest.NewRequest(http.MethodPost, "/functions/bare-fn/run", nil)
	req.SetPathValue("title", "bare-fn")
	rr := httptest.NewRecorder()
	h.RunFunction(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with no body, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRunFunction_FailureStatus(t *testing.T) {
	h, em := newTestHandlers(t, runtime.Result{ExitCode: 1, Stderr: "traceback\n"})
	mustRegister(t, em, "fail-fn", writeEntrypoint(t))

	req := httptest.NewRequest(http.MethodPost, "/functions/fail-fn/run", nil)
	req.SetPathValue("title", "fail-fn")
	rr := httptest.NewRecorder()
	h.RunFunction(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp api.RunFunctionResponse
	decodeBody(t, rr.Body, &resp)
	if resp.Status != api.JobStatusFailed {
		t.Errorf("expected FAILED, got %s", resp.Status)
	}
}

func TestRunFunction_UnknownTitle(t *testing.T) {
	h, _ := newTestHandlers(t, runtime.Result{})

	req := httptest.NewRequest(http.MethodPost, "/functions/missing/run", nil)
	req.SetPathValue("title", "missing")
	rr := httptest.NewRecorder()
	h.RunFunction(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

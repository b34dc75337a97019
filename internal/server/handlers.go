// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pdiddy/oracle-engine/internal/analysis"
	"github.com/pdiddy/oracle-engine/internal/results"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeResponse struct {
	Status    string                `json:"status"`
	Query     string                `json:"query"`
	Analysis  *types.AnalysisResult `json:"analysis"`
	Layers    []types.Output        `json:"layers"`
	Synthesis types.Output          `json:"synthesis"`
}

type resultsResponse struct {
	Status  string                `json:"status"`
	Results *types.AnalysisResult `json:"results"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
	Layer   string `json:"layer,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer body.Close()

	var req analyzeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Message: "payload exceeds limit"})
			return
		}
		writeError(w, http.StatusBadRequest, errorResponse{Message: "query is required"})
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Message: "query is required"})
		return
	}

	result, err := s.analyzer.Analyze(req.Query)
	if err != nil {
		stage := analysis.Stage(err)
		s.logger.Printf("analyze %q failed (stage=%s): %v", req.Query, stage, err)
		writeError(w, http.StatusInternalServerError, errorResponse{
			Message: err.Error(),
			Stage:   stage,
			Layer:   analysis.FailedLayer(err),
		})
		return
	}

	s.logger.Printf("analyze %q ok", req.Query)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Status:    "success",
		Query:     req.Query,
		Analysis:  result,
		Layers:    result.Layers,
		Synthesis: result.Synthesis,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	result, err := s.results.Load()
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			writeError(w, http.StatusNotFound, errorResponse{Message: "no results found"})
			return
		}
		s.logger.Printf("load results failed: %v", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Status: "success", Results: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: s.version,
	})
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	resp.Status = "error"
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

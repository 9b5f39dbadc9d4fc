package server

import (
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/bonktools/itemscan/internal/pipeline"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ErrorResponse is the error payload for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// scanHandler accepts a screenshot upload (multipart field "image" or a raw
// body) and responds with the detection result JSON.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	img, err := s.decodeUpload(r)
	if err != nil {
		scanRequestsTotal.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := s.pipeline.Analyze(r.Context(), img)
	if err != nil {
		if errors.Is(err, pipeline.ErrAnalysisInProgress) {
			scanRequestsTotal.WithLabelValues("busy").Inc()
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		scanRequestsTotal.WithLabelValues("error").Inc()
		slog.Error("scan failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	data, err := res.ToJSON()
	if err != nil {
		scanRequestsTotal.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	scanRequestsTotal.WithLabelValues("ok").Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	scanDetections.Observe(float64(len(res.Detections)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write scan response", "error", err)
	}
}

// decodeUpload reads the screenshot from a multipart form or the raw body.
func (s *Server) decodeUpload(r *http.Request) (image.Image, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.cfg.MaxUploadBytes)

	if file, _, err := r.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		img, _, derr := image.Decode(file)
		if derr != nil {
			return nil, errors.New("uploaded file is not a decodable image")
		}
		return img, nil
	}

	img, _, err := image.Decode(r.Body)
	if err != nil {
		return nil, errors.New("request body is not a decodable image")
	}
	return img, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

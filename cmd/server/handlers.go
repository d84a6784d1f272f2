package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aidilfitri/reportparse"
)

type handler struct {
	engine reportparse.Engine
}

func newHandler(e reportparse.Engine) *handler {
	return &handler{engine: e}
}

// POST /analyze
// Accepts multipart file upload or JSON with file path.
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	// Try multipart upload first
	if err := r.ParseMultipartForm(50 << 20); err == nil { // 50MB max
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			// Sanitise filename to prevent path traversal; keep the
			// extension so format detection still works. CreateTemp
			// keeps concurrent uploads of the same name from colliding.
			safeName := filepath.Base(header.Filename)

			dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(safeName))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to process file")
				slog.Error("creating temp file", "error", err)
				return
			}
			tmpPath := dst.Name()
			if _, err := io.Copy(dst, file); err != nil {
				dst.Close()
				os.Remove(tmpPath)
				writeError(w, http.StatusInternalServerError, "failed to save file")
				slog.Error("saving uploaded file", "error", err)
				return
			}
			dst.Close()
			defer os.Remove(tmpPath)

			result, err := h.engine.Analyze(ctx, tmpPath)
			if err != nil {
				writeError(w, analyzeStatus(err), "analysis failed")
				slog.Error("analyze error", "file", safeName, "error", err)
				return
			}

			writeJSON(w, http.StatusOK, result)
			return
		}
	}

	// Try JSON body with path
	var req struct {
		Path    string            `json:"path"`
		Options map[string]string `json:"options,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: expected multipart file or JSON with 'path'")
		return
	}

	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	// Validate that path is a real file (prevents directory traversal probing).
	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusBadRequest, "path must be an existing file")
		return
	}

	var opts []reportparse.AnalyzeOption
	if req.Options != nil {
		if _, ok := req.Options["force"]; ok {
			opts = append(opts, reportparse.WithForceReanalyze())
		}
		if format, ok := req.Options["format"]; ok {
			opts = append(opts, reportparse.WithFormat(format))
		}
	}

	result, err := h.engine.Analyze(ctx, absPath, opts...)
	if err != nil {
		writeError(w, analyzeStatus(err), "analysis failed")
		slog.Error("analyze error", "path", absPath, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /reports
func (h *handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.engine.ListReports(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		slog.Error("list reports error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

// GET /reports/{id}
func (h *handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	result, err := h.engine.Report(r.Context(), id)
	if err != nil {
		if errors.Is(err, reportparse.ErrReportNotFound) || errors.Is(err, reportparse.ErrAnalysisNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch report")
		slog.Error("get report error", "report_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DELETE /reports/{id}
func (h *handler) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	if err := h.engine.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("delete error", "report_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func analyzeStatus(err error) int {
	if errors.Is(err, reportparse.ErrUnsupportedFormat) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

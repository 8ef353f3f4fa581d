package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/yasconvert/internal/blob"
	"github.com/example/yasconvert/internal/jobs"
)

type Server struct {
	Blobs          *blob.Store
	Coordinator    *jobs.Coordinator
	Status         *jobs.Registry
	MaxUploadBytes int64
	Logger         *log.Logger
}

func (s Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/upload", s.handleUpload)
	r.Post("/remove/{fileID}", s.handleRemove)
	r.Post("/start_conversion", s.handleStartConversion)
	r.Get("/get_conversion_status/{jobID}", s.handleStatus)
	r.Get("/download/{fileID}", s.handleDownload)

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		s.Logger.Error("failed to read upload", "err", err)
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("upload too large or unreadable: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("no file selected"))
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeErr(w, http.StatusBadRequest, errors.New("no file selected"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.Logger.Error("failed to read upload", "filename", header.Filename, "err", err)
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("read upload: %w", err))
		return
	}

	id := s.Blobs.Put(header.Filename, data, header.Header.Get("Content-Type"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"file_id":  id,
		"filename": header.Filename,
	})
}

func (s Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	if !s.Blobs.Delete(id) {
		writeErr(w, http.StatusNotFound, errors.New("file not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s Server) handleStartConversion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Format  string   `json:"format"`
		FileIDs []string `json:"file_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Format == "" {
		req.Format = "png"
	}

	jobID, err := s.Coordinator.Submit(req.FileIDs, req.Format)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "job_id": jobID})
}

func (s Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Status.Get(chi.URLParam(r, "jobID")))
}

func (s Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	rec, ok := s.Blobs.Get(id)
	if !ok || rec.Converted == nil {
		http.Error(w, "converted file not found or not ready", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", rec.ConvertedMediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.DownloadName))
	_, _ = w.Write(rec.Converted)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"success": false, "message": err.Error()})
}

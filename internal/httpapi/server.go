// Package httpapi exposes the architecture manager over a small JSON HTTP
// surface for driving runs and inspecting performance.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/manager"
	"github.com/parleyhq/parley/pkg/models"
)

// Server wires the manager's operations onto HTTP handlers.
type Server struct {
	mgr *manager.Manager
	mux *http.ServeMux
}

// New builds the server and registers its routes.
func New(mgr *manager.Manager) *Server {
	s := &Server{mgr: mgr, mux: http.NewServeMux()}
	s.mux.HandleFunc("/architectures", s.handleArchitectures)
	s.mux.HandleFunc("/set_architecture", s.handleSetArchitecture)
	s.mux.HandleFunc("/process_with_agents", s.handleProcess)
	s.mux.HandleFunc("/performance_comparison", s.handlePerformance)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving the API on the given address.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[httpapi] listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleArchitectures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"architectures": s.mgr.ListArchitectures(),
		"active":        s.mgr.Active(),
	})
}

type setArchitectureRequest struct {
	Architecture string `json:"architecture"`
}

func (s *Server) handleSetArchitecture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req setArchitectureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.mgr.SetArchitecture(req.Architecture); err != nil {
		var unknownErr *manager.UnknownArchitectureError
		if errors.As(err, &unknownErr) {
			writeError(w, http.StatusBadRequest, unknownErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"active": req.Architecture})
}

type processRequest struct {
	TaskID       string          `json:"task_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Priority     models.Priority `json:"priority"`
	ContextFiles []string        `json:"context_files"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.TaskID == "" {
		req.TaskID = uuid.New().String()
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "unknown priority "+string(req.Priority))
		return
	}

	task := models.Task{
		TaskID:       req.TaskID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		ContextFiles: req.ContextFiles,
	}

	result := s.mgr.ProcessTask(r.Context(), task)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.mgr.ComparePerformance())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[httpapi] encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

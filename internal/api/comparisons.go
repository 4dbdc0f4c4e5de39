package api

import (
    "encoding/json"
    "errors"
    "net/http"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog/log"

    "github.com/local/doccompare/internal/store"
)

type saveReq struct {
    UserID        string          `json:"user"`
    WorkspaceID   string          `json:"workspace_id"`
    Title         string          `json:"title"`
    Description   string          `json:"description"`
    DocumentAName string          `json:"document_a_name"`
    DocumentBName string          `json:"document_b_name"`
    DocumentAType string          `json:"document_a_type"`
    DocumentBType string          `json:"document_b_type"`
    DocumentAURL  string          `json:"document_a_url"`
    DocumentBURL  string          `json:"document_b_url"`
    Results       json.RawMessage `json:"results"`
}

type saveResp struct {
    Success bool   `json:"success"`
    ID      string `json:"id"`
}

func (s *Server) handleSaveComparison(w http.ResponseWriter, r *http.Request) {
    if s.deps.Comparisons == nil {
        writeError(w, http.StatusServiceUnavailable, "comparison store unavailable")
        return
    }
    var req saveReq
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, http.StatusBadRequest, "No data provided")
        return
    }
    if strings.TrimSpace(req.UserID) == "" {
        writeError(w, http.StatusBadRequest, "missing user")
        return
    }
    rec := &store.SavedComparison{
        UserID:        req.UserID,
        Title:         req.Title,
        Description:   req.Description,
        DocumentAName: req.DocumentAName,
        DocumentBName: req.DocumentBName,
        DocumentAType: req.DocumentAType,
        DocumentBType: req.DocumentBType,
        DocumentAURL:  req.DocumentAURL,
        DocumentBURL:  req.DocumentBURL,
        ResultsJSON:   string(req.Results),
    }
    if req.WorkspaceID != "" {
        if !s.fillFromWorkspace(rec, req.WorkspaceID) {
            writeError(w, http.StatusNotFound, "workspace not found")
            return
        }
    }
    if err := s.deps.Comparisons.Save(r.Context(), rec); err != nil {
        log.Error().Err(err).Str("user", rec.UserID).Msg("save comparison failed")
        writeError(w, http.StatusServiceUnavailable, "save failed")
        return
    }
    writeJSON(w, http.StatusCreated, saveResp{Success: true, ID: rec.ID})
}

// fillFromWorkspace completes blank document fields and results from a
// live workspace.
func (s *Server) fillFromWorkspace(rec *store.SavedComparison, id string) bool {
    ws, ok := s.deps.Registry.Get(id)
    if !ok {
        return false
    }
    snap := ws.Snapshot()
    fill := func(dst *string, v string) {
        if *dst == "" {
            *dst = v
        }
    }
    fill(&rec.DocumentAName, snap.A.Name)
    fill(&rec.DocumentBName, snap.B.Name)
    fill(&rec.DocumentAType, string(snap.A.MediaKind))
    fill(&rec.DocumentBType, string(snap.B.MediaKind))
    if rec.ResultsJSON == "" {
        if report := ws.Report(); report != nil {
            if b, err := json.Marshal(report); err == nil {
                rec.ResultsJSON = string(b)
            }
        }
    }
    return true
}

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
    if s.deps.Comparisons == nil {
        writeError(w, http.StatusServiceUnavailable, "comparison store unavailable")
        return
    }
    user := r.URL.Query().Get("user")
    if user == "" {
        writeError(w, http.StatusBadRequest, "missing user")
        return
    }
    list, err := s.deps.Comparisons.List(r.Context(), user)
    if err != nil {
        writeError(w, http.StatusServiceUnavailable, "list failed")
        return
    }
    writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteComparison(w http.ResponseWriter, r *http.Request) {
    if s.deps.Comparisons == nil {
        writeError(w, http.StatusServiceUnavailable, "comparison store unavailable")
        return
    }
    user := r.URL.Query().Get("user")
    if user == "" {
        writeError(w, http.StatusBadRequest, "missing user")
        return
    }
    err := s.deps.Comparisons.Delete(r.Context(), user, chi.URLParam(r, "cid"))
    if errors.Is(err, store.ErrNotFound) {
        writeError(w, http.StatusNotFound, err.Error())
        return
    }
    if err != nil {
        writeError(w, http.StatusServiceUnavailable, "delete failed")
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

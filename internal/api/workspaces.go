package api

import (
    "encoding/json"
    "errors"
    "io"
    "net/http"
    "strconv"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog/log"

    "github.com/local/doccompare/internal/media"
    "github.com/local/doccompare/internal/slot"
    "github.com/local/doccompare/internal/workspace"
)

type workspaceHandler func(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace)

func (s *Server) withWorkspace(h workspaceHandler) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        ws, ok := s.deps.Registry.Get(chi.URLParam(r, "id"))
        if !ok {
            writeError(w, http.StatusNotFound, "workspace not found")
            return
        }
        h(w, r, ws)
    }
}

type modeReq struct {
    Mode string `json:"mode"`
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
    var req modeReq
    if r.ContentLength != 0 {
        if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
            writeError(w, http.StatusBadRequest, "invalid json")
            return
        }
    }
    mode := media.ModeImage
    if req.Mode != "" {
        m, err := media.ParseMode(req.Mode)
        if err != nil {
            writeError(w, http.StatusBadRequest, err.Error())
            return
        }
        mode = m
    }
    ws := s.deps.Registry.Create(mode)
    writeJSON(w, http.StatusCreated, ws.Snapshot())
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    writeJSON(w, http.StatusOK, ws.Snapshot())
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
    if !s.deps.Registry.Delete(chi.URLParam(r, "id")) {
        writeError(w, http.StatusNotFound, "workspace not found")
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    var req modeReq
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, http.StatusBadRequest, "invalid json")
        return
    }
    mode, err := media.ParseMode(req.Mode)
    if err != nil {
        writeError(w, http.StatusBadRequest, err.Error())
        return
    }
    ws.SetMode(mode)
    writeJSON(w, http.StatusOK, ws.Snapshot())
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    ws.SwitchSides()
    writeJSON(w, http.StatusOK, ws.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    ws.Reset()
    writeJSON(w, http.StatusOK, ws.Snapshot())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    report, err := ws.Compare(r.Context())
    var precondition *media.PreconditionError
    if errors.As(err, &precondition) {
        writeError(w, http.StatusConflict, "Please upload both documents before comparing")
        return
    }
    if err != nil {
        writeError(w, http.StatusInternalServerError, "comparison failed")
        return
    }
    writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    report := ws.Report()
    if report == nil {
        writeError(w, http.StatusNotFound, "no comparison has been run")
        return
    }
    writeJSON(w, http.StatusOK, report)
}

func parseSide(w http.ResponseWriter, r *http.Request) (media.Side, bool) {
    side, err := media.ParseSide(chi.URLParam(r, "side"))
    if err != nil {
        writeError(w, http.StatusBadRequest, err.Error())
        return "", false
    }
    return side, true
}

func (s *Server) handleGetSlot(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    side, ok := parseSide(w, r)
    if !ok {
        return
    }
    writeJSON(w, http.StatusOK, ws.Slot(side).Snapshot())
}

func (s *Server) handleLoadFile(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    side, ok := parseSide(w, r)
    if !ok {
        return
    }
    r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)
    if err := r.ParseMultipartForm(s.deps.MaxUploadBytes); err != nil {
        writeError(w, http.StatusBadRequest, "invalid multipart form")
        return
    }
    file, hdr, err := r.FormFile("file")
    if err != nil {
        writeError(w, http.StatusBadRequest, "missing file")
        return
    }
    defer file.Close()
    width, err := parseWidth(r.FormValue("container_width"))
    if err != nil {
        writeError(w, http.StatusBadRequest, err.Error())
        return
    }
    // Multipart temp files are removed when the handler returns, so the
    // slot gets an in-memory copy.
    data, err := io.ReadAll(file)
    if err != nil {
        writeError(w, http.StatusBadRequest, "failed to read upload")
        return
    }
    task, err := ws.LoadFile(side, hdr.Filename, data, width)
    s.respondLoad(w, r, ws, side, task, err)
}

type urlReq struct {
    URL            string `json:"url"`
    ContainerWidth int    `json:"container_width"`
}

func (s *Server) handleLoadURL(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    side, ok := parseSide(w, r)
    if !ok {
        return
    }
    var req urlReq
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, http.StatusBadRequest, "invalid json")
        return
    }
    if strings.TrimSpace(req.URL) == "" {
        writeError(w, http.StatusBadRequest, "Please enter a URL")
        return
    }
    if req.ContainerWidth < 0 {
        writeError(w, http.StatusBadRequest, "container_width must be positive")
        return
    }
    task, err := ws.LoadURL(side, req.URL, req.ContainerWidth)
    s.respondLoad(w, r, ws, side, task, err)
}

// respondLoad answers 202 with the Loading snapshot, or 200 with the settled
// snapshot when the client asked to wait. A rejected type is 422.
func (s *Server) respondLoad(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, side media.Side, task *slot.Task, err error) {
    var unsupported *media.UnsupportedTypeError
    if errors.As(err, &unsupported) {
        writeJSON(w, http.StatusUnprocessableEntity, ws.Slot(side).Snapshot())
        return
    }
    if err != nil {
        log.Error().Err(err).Str("workspace", ws.ID()).Str("side", string(side)).Msg("load request failed")
        writeError(w, http.StatusInternalServerError, "load failed")
        return
    }
    if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
        select {
        case <-task.Done():
        case <-r.Context().Done():
            return
        }
        writeJSON(w, http.StatusOK, ws.Slot(side).Snapshot())
        return
    }
    writeJSON(w, http.StatusAccepted, ws.Slot(side).Snapshot())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace) {
    side, ok := parseSide(w, r)
    if !ok {
        return
    }
    snap := ws.Slot(side).Snapshot()
    if snap.State != slot.StateReady {
        writeError(w, http.StatusNotFound, "no preview available")
        return
    }
    w.Header().Set("Content-Type", snap.ContentType)
    w.Header().Set("Content-Length", strconv.Itoa(len(snap.Preview)))
    w.Header().Set("Cache-Control", "no-store")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(snap.Preview)
}

func parseWidth(v string) (int, error) {
    if v == "" {
        return 0, nil
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < 0 {
        return 0, errors.New("container_width must be a positive integer")
    }
    return n, nil
}

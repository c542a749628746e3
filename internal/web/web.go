// Package web exposes the upload-preview and calendar-generation HTTP API.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ttcal/internal/calendar"
	"ttcal/internal/config"
	"ttcal/internal/decode"
	appLog "ttcal/internal/log"
	"ttcal/internal/model"
)

// maxUploadBytes caps schedule uploads; timetables are small.
const maxUploadBytes = 16 << 20

// Server provides HTTP APIs for schedule upload preview and calendar export.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// StartServer starts an HTTP server bound to cfg.Listen.
func StartServer(_ context.Context, cfg *config.Config) error {
	s := NewServer(cfg)
	appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
	return http.ListenAndServe(cfg.Listen, s.Handler())
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password means auth stays off.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health is always reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="ttcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/preview", s.handlePreview)
	s.mux.HandleFunc("/api/calendar", s.handleCalendar)
	s.mux.HandleFunc("/api/calendar/summary", s.handleSummary)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// previewResponse is the JSON response shape for /api/preview.
type previewResponse struct {
	UploadID        string              `json:"upload_id"`
	Columns         []string            `json:"columns"`
	Data            []map[string]string `json:"data"`
	Suggested       model.RoleMapping   `json:"suggested_mapping"`
	SheetUsed       string              `json:"sheet_used,omitempty"`
	AvailableSheets []string            `json:"available_sheets,omitempty"`
}

// handlePreview accepts a multipart schedule upload ("file" field, optional
// "sheet" field) and returns the normalized table plus a suggested role
// mapping. An empty result is reported as 422, not as a server error.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	parsed, err := decode.File(file, header.Filename, r.FormValue("sheet"))
	if err != nil {
		appLog.Warn("upload decode failed", "filename", header.Filename, "reason", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if parsed.Table.Empty() {
		writeError(w, http.StatusUnprocessableEntity, "no usable data found in file")
		return
	}

	uploadID := uuid.NewString()
	appLog.Info("upload previewed",
		"upload_id", uploadID,
		"filename", header.Filename,
		"rows", len(parsed.Table.Rows),
		"columns", len(parsed.Table.Columns),
	)

	rows := parsed.Table.Rows
	if rows == nil {
		rows = []map[string]string{}
	}
	writeJSON(w, http.StatusOK, previewResponse{
		UploadID:        uploadID,
		Columns:         parsed.Table.Columns,
		Data:            rows,
		Suggested:       parsed.Suggested,
		SheetUsed:       parsed.SheetUsed,
		AvailableSheets: parsed.AvailableSheets,
	})
}

// eventDTO mirrors model.EventRecord but keeps the reminder optional so the
// configured default can apply when the field is absent.
type eventDTO struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Title           string `json:"title"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	Recurring       string `json:"recurring,omitempty"`
	ReminderMinutes *int   `json:"reminder_minutes,omitempty"`
}

// calendarRequest is the JSON request shape for /api/calendar and
// /api/calendar/summary.
type calendarRequest struct {
	Events       []eventDTO `json:"events"`
	CalendarName string     `json:"calendar_name"`
	Timezone     string     `json:"timezone"`
}

func (s *Server) decodeCalendarRequest(r *http.Request) (calendarRequest, []model.EventRecord, error) {
	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, errors.New("invalid JSON body")
	}
	if len(req.Events) == 0 {
		return req, nil, errors.New("no events provided")
	}
	if req.CalendarName == "" {
		req.CalendarName = s.cfg.CalendarName
	}
	if req.Timezone == "" {
		req.Timezone = s.cfg.Timezone
	}

	events := make([]model.EventRecord, 0, len(req.Events))
	for _, dto := range req.Events {
		reminder := s.cfg.DefaultReminderMinutes
		if dto.ReminderMinutes != nil {
			reminder = *dto.ReminderMinutes
		}
		events = append(events, model.EventRecord{
			Date:            dto.Date,
			Time:            dto.Time,
			Title:           dto.Title,
			Location:        dto.Location,
			Description:     dto.Description,
			EndTime:         dto.EndTime,
			Recurring:       dto.Recurring,
			ReminderMinutes: reminder,
		})
	}
	return req, events, nil
}

func (s *Server) emitter() *calendar.Emitter {
	e := calendar.NewEmitter()
	e.MergeToleranceMinutes = s.cfg.MergeToleranceMinutes
	e.DefaultDuration = time.Duration(s.cfg.DefaultDurationMinutes) * time.Minute
	return e
}

// handleCalendar turns an event list into an .ics download.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	req, events, err := s.decodeCalendarRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := s.emitter().Generate(events, req.CalendarName, req.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timetable.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleSummary reports calendar statistics without generating the file.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	req, events, err := s.decodeCalendarRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calendar.Summarize(events, req.CalendarName))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

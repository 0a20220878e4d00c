package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"compass/api/internal/comments"
	"compass/api/internal/email"
	"compass/api/internal/stats"
	"compass/api/internal/viewstate"
)

const defaultHighlightLimit = 10

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		s.handleReady(w, r)
		return
	}

	if r.URL.Path == "/api/records" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		writeJSON(w, http.StatusOK, s.service.Records())
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/records/reload" {
		payload, err := s.service.Reload(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/stats/") {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.handleStats(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		q := r.URL.Query().Get("q")
		writeJSON(w, http.StatusOK, s.service.Search(q))
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/view-state") {
		s.handleViewState(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/comments/bulk-get" {
		s.handleBulkComments(w, r)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/comments/") {
		parts := splitPath(r.URL.Path)
		if len(parts) == 3 {
			s.handleComment(w, r, parts[2])
			return
		}
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/notifications/comment" {
		s.handleCommentNotification(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/export/report" {
		result, err := s.service.ExportReport(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
		w.Header().Set("Content-Type", result.MimeType)
		w.Write(result.Data)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"database":       map[string]any{"status": "ok"},
		"commentStore":   map[string]any{"status": "ok"},
		"viewStateStore": map[string]any{"status": "ok"},
	}

	if err := s.service.PingDatabase(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = map[string]any{"status": "error", "error": err.Error()}
	}
	// Comment store outage degrades comments to read-only, it does not take
	// the dashboard down.
	if err := s.service.PingCommentStore(ctx); err != nil {
		checks["commentStore"] = map[string]any{"status": "degraded", "error": err.Error()}
	}
	if err := s.service.PingStateStore(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["viewStateStore"] = map[string]any{"status": "error", "error": err.Error()}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) != 3 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch parts[2] {
	case "departments":
		writeJSON(w, http.StatusOK, map[string]any{"departments": s.service.DepartmentStats()})
	case "bosses":
		writeJSON(w, http.StatusOK, map[string]any{"bosses": s.service.BossStats()})
	case "owners":
		writeJSON(w, http.StatusOK, map[string]any{"owners": s.service.OwnerStats(scopeFromQuery(r))})
	case "overview":
		writeJSON(w, http.StatusOK, s.service.Overview())
	case "compliance":
		writeJSON(w, http.StatusOK, s.service.Compliance(scopeFromQuery(r)))
	case "critical":
		limit, err := limitFromQuery(r)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"objectives": s.service.CriticalObjectives(limit)})
	case "top":
		limit, err := limitFromQuery(r)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"objectives": s.service.TopObjectives(limit)})
	case "colors":
		dimension := strings.TrimSpace(r.URL.Query().Get("dimension"))
		writeJSON(w, http.StatusOK, map[string]any{"colors": s.service.Colors(dimension)})
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleViewState(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/api/view-state" {
		state, err := s.service.ViewState(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, state)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	var state viewstate.State
	var err error
	switch r.URL.Path {
	case "/api/view-state/scope":
		var body struct {
			Dimension string `json:"dimension"`
			Value     string `json:"value"`
		}
		if decodeErr := decodeBody(r, &body); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", decodeErr.Error(), nil)
			return
		}
		state, err = s.service.SetScope(r.Context(), body.Dimension, body.Value)

	case "/api/view-state/group":
		var body struct {
			Name string `json:"name"`
		}
		if decodeErr := decodeBody(r, &body); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", decodeErr.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
			return
		}
		state, err = s.service.SelectGroup(r.Context(), body.Name)

	case "/api/view-state/owner", "/api/view-state/search-pick":
		var body viewstate.OwnerSelection
		if decodeErr := decodeBody(r, &body); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", decodeErr.Error(), nil)
			return
		}
		if strings.TrimSpace(body.Owner) == "" {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "owner is required", nil)
			return
		}
		state, err = s.service.SelectOwner(r.Context(), body)

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *HTTPServer) handleComment(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		comment, found, err := s.service.CommentFor(r.Context(), id)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"found":   found,
			"comment": comment,
			"online":  s.service.CommentsOnline(),
		})

	case http.MethodPut:
		var body struct {
			Comment string `json:"comment"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.SaveComment(r.Context(), id, body.Comment); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case http.MethodDelete:
		if err := s.service.DeleteComment(r.Context(), id); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleBulkComments(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs          []string `json:"ids"`
		SelectionKey string   `json:"selectionKey"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	result, stale, err := s.service.BulkComments(r.Context(), body.IDs, body.SelectionKey)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selectionKey": result.SelectionKey,
		"comments":     result.Comments,
		"stale":        stale,
		"online":       s.service.CommentsOnline(),
	})
}

func (s *HTTPServer) handleCommentNotification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RecipientName  string  `json:"recipientName"`
		RecipientEmail string  `json:"recipientEmail"`
		Department     string  `json:"department"`
		Objective      string  `json:"objective"`
		Progress       float64 `json:"progress"`
		Comment        string  `json:"comment"`
		Author         string  `json:"author"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if strings.TrimSpace(body.RecipientEmail) == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "recipientEmail is required", nil)
		return
	}

	err := s.service.NotifyComment(email.CommentNotification{
		RecipientName:  body.RecipientName,
		RecipientEmail: body.RecipientEmail,
		Department:     body.Department,
		Objective:      body.Objective,
		Progress:       body.Progress,
		Comment:        body.Comment,
		Author:         body.Author,
		Date:           time.Now().Format("2006-01-02 15:04"),
	})
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func scopeFromQuery(r *http.Request) stats.Scope {
	return stats.Scope{
		Dimension: strings.TrimSpace(r.URL.Query().Get("dimension")),
		Value:     strings.TrimSpace(r.URL.Query().Get("scope")),
	}
}

func limitFromQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return defaultHighlightLimit, nil
	}
	return strconv.Atoi(raw)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, comments.ErrOffline) {
		return http.StatusServiceUnavailable, "OFFLINE", "Comment store unreachable", nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

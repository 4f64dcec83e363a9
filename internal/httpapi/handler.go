package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strconv"
	"strings"

	"github.com/tmpnokaikaku/QueueTicket/internal/models"
	"github.com/tmpnokaikaku/QueueTicket/internal/queue"
	"github.com/tmpnokaikaku/QueueTicket/internal/store"

	"github.com/google/uuid"
)

type Handler struct {
	queue *queue.Service
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type guestView struct {
	Ticket       models.Ticket `json:"ticket"`
	WaitingCount int64         `json:"waiting_count"`
}

func NewHandler(svc *queue.Service) *Handler {
	return &Handler{queue: svc}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/guest/", h.handleGuest)
	mux.HandleFunc("/admin/tickets", h.handleTickets)
	mux.HandleFunc("/admin/tickets/status", h.handleStatus)
	mux.HandleFunc("/admin/reset", h.handleReset)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleTickets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleIssue(w, r)
	case http.MethodGet:
		h.handleActiveList(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.FormValue("group_size"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "group_size is required")
		return
	}
	groupSize, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "group_size must be an integer")
		return
	}

	issued, err := h.queue.Issue(r.Context(), groupSize)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, issued)
}

func (h *Handler) handleActiveList(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.queue.ActiveList(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(r.FormValue("id"))
	label := strings.TrimSpace(r.FormValue("status"))
	if id == "" || label == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id and status are required")
		return
	}
	if !isValidUUID(id) {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	ticket, err := h.queue.SetStatus(r.Context(), id, label)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := h.queue.Reset(r.Context()); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGuest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/guest/"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !isValidUUID(id) {
		writeError(w, http.StatusNotFound, "ticket_not_found", "ticket not found")
		return
	}

	ticket, waiting, err := h.queue.ViewFor(r.Context(), id)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, guestView{Ticket: ticket, WaitingCount: waiting})
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrTicketNotFound):
		return http.StatusNotFound, "ticket_not_found", "ticket not found"
	case errors.Is(err, queue.ErrInvalidGroupSize):
		return http.StatusBadRequest, "invalid_request", "group_size must be a positive integer"
	case errors.Is(err, models.ErrUnknownStatus):
		return http.StatusBadRequest, "invalid_request", "unrecognized status value"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

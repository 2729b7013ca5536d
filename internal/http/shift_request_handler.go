package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

type shiftRequestService interface {
	ListShiftRequests(ctx context.Context, params application.ListShiftRequestsParams) ([]application.ShiftRequest, error)
	GetShiftRequest(ctx context.Context, principal application.Principal, id string) (application.ShiftRequest, error)
	CreateShiftRequest(ctx context.Context, params application.CreateShiftRequestParams) (application.ShiftRequest, error)
	UpdateShiftRequest(ctx context.Context, params application.UpdateShiftRequestParams) (application.ShiftRequest, error)
	DeleteShiftRequest(ctx context.Context, principal application.Principal, id string) error
}

var shiftRequestMessages = errorMessages{
	Conflict: "その日付のシフトは既に登録されています。",
	NotFound: "指定されたシフトが見つかりません。",
}

// ShiftRequestHandler serves the availability ledger.
type ShiftRequestHandler struct {
	service   shiftRequestService
	responder responder
	logger    *slog.Logger
}

func NewShiftRequestHandler(service shiftRequestService, logger *slog.Logger) *ShiftRequestHandler {
	base := defaultLogger(logger)
	return &ShiftRequestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ShiftRequestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ShiftRequestHandler", operation, attrs...)
}

// List returns the caller's requests.
func (h *ShiftRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// ListAll returns every user's requests. Administrators only.
func (h *ShiftRequestHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *ShiftRequestHandler) list(w http.ResponseWriter, r *http.Request, allUsers bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	period, err := parseMonthFilter(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	requests, err := h.service.ListShiftRequests(r.Context(), application.ListShiftRequestsParams{
		Principal: principal,
		Period:    period,
		AllUsers:  allUsers,
	})
	if err != nil {
		h.log(r.Context(), "List", "all_users", allUsers).WarnContext(r.Context(), "shift request list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShiftRequestDTOs(requests))
}

func (h *ShiftRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	request, err := h.service.GetShiftRequest(r.Context(), principal, chi.URLParam(r, "requestID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, shiftRequestMessages)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShiftRequestDTO(request))
}

func (h *ShiftRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	input, err := decodeShiftRequest(r)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode shift request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	request, err := h.service.CreateShiftRequest(r.Context(), application.CreateShiftRequestParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "shift request creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, shiftRequestMessages)
		return
	}

	logger.With("shift_request_id", request.ID).InfoContext(r.Context(), "shift request created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toShiftRequestDTO(request))
}

func (h *ShiftRequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "requestID")
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "shift_request_id", id)

	input, err := decodeShiftRequest(r)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode shift request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	request, err := h.service.UpdateShiftRequest(r.Context(), application.UpdateShiftRequestParams{
		Principal:      principal,
		ShiftRequestID: id,
		Input:          input,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "shift request update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, shiftRequestMessages)
		return
	}

	logger.InfoContext(r.Context(), "shift request updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShiftRequestDTO(request))
}

func (h *ShiftRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "requestID")
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "shift_request_id", id)

	if err := h.service.DeleteShiftRequest(r.Context(), principal, id); err != nil {
		logger.WarnContext(r.Context(), "shift request delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, shiftRequestMessages)
		return
	}

	logger.InfoContext(r.Context(), "shift request deleted")
	h.responder.writeMessage(r.Context(), w, "シフトを削除しました。")
}

type shiftRequestRequest struct {
	Date        string  `json:"date"`
	CanWork     bool    `json:"canwork"`
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

func decodeShiftRequest(r *http.Request) (application.ShiftRequestInput, error) {
	var req shiftRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return application.ShiftRequestInput{}, errBadRequestBody
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return application.ShiftRequestInput{}, err
	}

	return application.ShiftRequestInput{
		Date:        date,
		CanWork:     req.CanWork,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}, nil
}

// parseOptionalDate leaves a blank date as the zero time so the service can
// report it as a missing field.
func parseOptionalDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	date, err := shifttime.ParseDate(value)
	if err != nil {
		return time.Time{}, errInvalidDateValue
	}
	return date, nil
}

type shiftRequestDTO struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	CanWork         bool    `json:"canwork"`
	Description     *string `json:"description,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	UserID          string  `json:"user_id"`
	UserDisplayName string  `json:"user_display_name,omitempty"`
}

func toShiftRequestDTO(request application.ShiftRequest) shiftRequestDTO {
	return shiftRequestDTO{
		ID:              request.ID,
		Date:            shifttime.FormatDate(request.Date),
		CanWork:         request.CanWork,
		Description:     request.Description,
		StartTime:       formatLocalTimestamp(request.StartTime),
		EndTime:         formatLocalTimestamp(request.EndTime),
		UserID:          request.UserID,
		UserDisplayName: request.UserDisplayName,
	}
}

func toShiftRequestDTOs(requests []application.ShiftRequest) []shiftRequestDTO {
	out := make([]shiftRequestDTO, 0, len(requests))
	for _, request := range requests {
		out = append(out, toShiftRequestDTO(request))
	}
	return out
}

func formatLocalTimestamp(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.In(shifttime.Location()).Format(time.RFC3339)
	return &formatted
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

type confirmedShiftService interface {
	ListConfirmedShifts(ctx context.Context, params application.ListConfirmedShiftsParams) ([]application.ConfirmedShift, error)
	CreateConfirmedShift(ctx context.Context, params application.CreateConfirmedShiftParams) (application.ConfirmedShift, error)
	UpdateConfirmedShift(ctx context.Context, params application.UpdateConfirmedShiftParams) (application.ConfirmedShift, error)
	DeleteConfirmedShift(ctx context.Context, principal application.Principal, id string) error
}

var confirmedShiftMessages = errorMessages{
	Conflict: "そのユーザーの同じ日付の確定シフトは既に登録されています。",
	NotFound: "指定された確定シフトまたはユーザーが見つかりません。",
}

// ConfirmedShiftHandler serves the confirmed roster.
type ConfirmedShiftHandler struct {
	service   confirmedShiftService
	responder responder
	logger    *slog.Logger
}

func NewConfirmedShiftHandler(service confirmedShiftService, logger *slog.Logger) *ConfirmedShiftHandler {
	base := defaultLogger(logger)
	return &ConfirmedShiftHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ConfirmedShiftHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ConfirmedShiftHandler", operation, attrs...)
}

// ListOwn returns the caller's confirmed shifts.
func (h *ConfirmedShiftHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, application.ScopeSelf)
}

// ListAll returns every user's confirmed shifts.
func (h *ConfirmedShiftHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, application.ScopeAll)
}

func (h *ConfirmedShiftHandler) list(w http.ResponseWriter, r *http.Request, scope application.ConfirmedShiftScope) {
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
	shifts, err := h.service.ListConfirmedShifts(r.Context(), application.ListConfirmedShiftsParams{
		Principal: principal,
		Scope:     scope,
		Period:    period,
	})
	if err != nil {
		h.log(r.Context(), "List", "scope", scope).WarnContext(r.Context(), "confirmed shift list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toConfirmedShiftDTOs(shifts))
}

func (h *ConfirmedShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	input, err := decodeConfirmedShift(r)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode confirmed shift", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	shift, err := h.service.CreateConfirmedShift(r.Context(), application.CreateConfirmedShiftParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "confirmed shift creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, confirmedShiftMessages)
		return
	}

	logger.With("confirmed_shift_id", shift.ID, "user_id", shift.UserID).InfoContext(r.Context(), "confirmed shift created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toConfirmedShiftDTO(shift))
}

func (h *ConfirmedShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "shiftID")
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "confirmed_shift_id", id)

	input, err := decodeConfirmedShift(r)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode confirmed shift", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	shift, err := h.service.UpdateConfirmedShift(r.Context(), application.UpdateConfirmedShiftParams{
		Principal:        principal,
		ConfirmedShiftID: id,
		Input:            input,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "confirmed shift update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, confirmedShiftMessages)
		return
	}

	logger.InfoContext(r.Context(), "confirmed shift updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toConfirmedShiftDTO(shift))
}

func (h *ConfirmedShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "shiftID")
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "confirmed_shift_id", id)

	if err := h.service.DeleteConfirmedShift(r.Context(), principal, id); err != nil {
		logger.WarnContext(r.Context(), "confirmed shift delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err, confirmedShiftMessages)
		return
	}

	logger.InfoContext(r.Context(), "confirmed shift deleted")
	h.responder.writeMessage(r.Context(), w, "確定シフトを削除しました。")
}

type confirmedShiftRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func decodeConfirmedShift(r *http.Request) (application.ConfirmedShiftInput, error) {
	var req confirmedShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return application.ConfirmedShiftInput{}, errBadRequestBody
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return application.ConfirmedShiftInput{}, err
	}

	return application.ConfirmedShiftInput{
		UserID:    req.UserID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, nil
}

type confirmedShiftDTO struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	UserID          string  `json:"user_id"`
	UserDisplayName string  `json:"user_display_name"`
	User            userDTO `json:"user"`
}

func toConfirmedShiftDTO(shift application.ConfirmedShift) confirmedShiftDTO {
	return confirmedShiftDTO{
		ID:              shift.ID,
		Date:            shifttime.FormatDate(shift.Date),
		StartTime:       shift.StartLocal,
		EndTime:         shift.EndLocal,
		UserID:          shift.UserID,
		UserDisplayName: shift.User.DisplayName,
		User: userDTO{
			ID:          shift.User.ID,
			Username:    shift.User.Username,
			DisplayName: shift.User.DisplayName,
			Admin:       shift.User.IsAdmin,
		},
	}
}

func toConfirmedShiftDTOs(shifts []application.ConfirmedShift) []confirmedShiftDTO {
	out := make([]confirmedShiftDTO, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, toConfirmedShiftDTO(shift))
	}
	return out
}

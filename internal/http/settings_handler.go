package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/eligibility"
)

type settingsService interface {
	CurrentDayOfWeekSettings(ctx context.Context) (eligibility.Settings, error)
	GetDayOfWeekSettings(ctx context.Context, principal application.Principal) (eligibility.Settings, error)
	UpdateDayOfWeekSettings(ctx context.Context, principal application.Principal, settings eligibility.Settings) (eligibility.Settings, error)
}

type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

// Current serves the weekday flags to any authenticated user.
func (h *SettingsHandler) Current(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.CurrentDayOfWeekSettings(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayOfWeekDTO(settings))
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	settings, err := h.service.GetDayOfWeekSettings(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayOfWeekDTO(settings))
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "SettingsHandler", "Update", "principal_id", principal.UserID)

	var req dayOfWeekDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode weekday settings", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	settings, err := h.service.UpdateDayOfWeekSettings(r.Context(), principal, req.toSettings())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayOfWeekDTO(settings))
}

type dayOfWeekDTO struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (d dayOfWeekDTO) toSettings() eligibility.Settings {
	return eligibility.Settings(d)
}

func toDayOfWeekDTO(settings eligibility.Settings) dayOfWeekDTO {
	return dayOfWeekDTO(settings)
}

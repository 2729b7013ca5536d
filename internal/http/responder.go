package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

var (
	errBadRequestBody   = errors.New("無効なリクエスト形式です。")
	errMissingToken     = errors.New("認証が必要です。")
	errInvalidToken     = errors.New("認証情報が無効です。再度ログインしてください。")
	errAdminRequired    = errors.New("管理者権限が必要です。")
	errInvalidPeriod    = errors.New("年または月の指定が正しくありません。")
	errInvalidDateValue = errors.New("日付は YYYY-MM-DD 形式で指定してください。")
)

const (
	msgForbidden          = "この操作を行う権限がありません。"
	msgNotFound           = "指定されたリソースが見つかりません。"
	msgValidation         = "入力内容に誤りがあります。"
	msgInvalidCredentials = "ユーザー名またはパスワードが無効です。"
	msgInternal           = "サーバー内部でエラーが発生しました。"
)

// errorMessages overrides the generic wording for one endpoint.
type errorMessages struct {
	Conflict  string
	NotFound  string
	Forbidden string
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) writeMessage(ctx context.Context, w http.ResponseWriter, message string) {
	r.writeJSON(ctx, w, http.StatusOK, messageResponse{Message: message})
}

// handleServiceError maps application errors onto status codes and
// localized messages.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, overrides ...errorMessages) {
	var msgs errorMessages
	if len(overrides) > 0 {
		msgs = overrides[0]
	}

	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	var fErr *shifttime.FormatError

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   msgInvalidCredentials,
		})
	case errors.Is(err, application.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_UNAUTHENTICATED",
			Message:   errInvalidToken.Error(),
		})
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   orDefault(msgs.Forbidden, msgForbidden),
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: orDefault(msgs.NotFound, msgNotFound)})
	case errors.Is(err, application.ErrAdminExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "管理者アカウントは既に存在します。"})
	case errors.Is(err, application.ErrConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: orDefault(msgs.Conflict, localizedStatusMessage(http.StatusConflict))})
	case errors.As(err, &vErr):
		details := localizeValidationErrors(vErr)
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: summarizeValidation(details),
			Errors:  details,
		})
	case errors.As(err, &fErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: "時刻の形式が正しくありません。HH:MM 形式で指定してください。",
			Errors:  map[string]string{"time": fErr.Value},
		})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: msgInternal})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusUnauthorized:
		return "認証が必要です。"
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return "要求はリソースの現在の状態と競合しています。"
	default:
		return msgInternal
	}
}

// summarizeValidation uses a lone field message as the top-level message.
func summarizeValidation(details map[string]string) string {
	if len(details) == 1 {
		for _, msg := range details {
			return msg
		}
	}
	return msgValidation
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "date is required":
		return "日付は必須です。"
	case "date is not an eligible class day":
		return "授業曜日以外の日付にはシフトを登録できません。"
	case "end_time must not be before start_time":
		return "終了時刻は開始時刻より後である必要があります。"
	case "month must be between 1 and 12":
		return "月は 1 から 12 の範囲で指定してください。"
	case "year is out of range":
		return "年の指定が正しくありません。"
	case "scope is invalid":
		return "表示範囲の指定が正しくありません。"
	case "admin code is invalid":
		return "管理者権限を付与するためのコードが違います。"
	case "username is required":
		return "ユーザー名は必須です。"
	case "username length is out of range":
		return "ユーザー名は 2 文字以上 20 文字以下で指定してください。"
	case "DisplayName is required":
		return "表示名は必須です。"
	case "DisplayName length is out of range":
		return "表示名は 20 文字以下で指定してください。"
	case "password is required":
		return "パスワードは必須です。"
	case "user_id is required":
		return "ユーザーは必須です。"
	case "start_time is required":
		return "開始時刻は必須です。"
	case "end_time is required":
		return "終了時刻は必須です。"
	case "description length is out of range":
		return "備考は 200 文字以下で指定してください。"
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

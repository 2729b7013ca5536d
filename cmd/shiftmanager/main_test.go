package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/config"
	"github.com/Taka-cst/ShiftManager/internal/eligibility"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/testfixtures"
)

const testAdminCode = "let-me-in"

func testConfig() config.Config {
	return config.Config{
		HTTPPort:       4567,
		DatabaseURL:    "file:unused.db",
		SecretKey:      "test-secret",
		AdminCode:      testAdminCode,
		AccessTokenTTL: 30 * time.Minute,
		LogLevel:       "info",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (c apiClient) call(method, path, token string, body any) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (c apiClient) login(username, password string) string {
	c.t.Helper()

	status, body := c.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, status, string(body))

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &token))
	require.NotEmpty(c.t, token.AccessToken)
	return token.AccessToken
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &payload), string(body))
	return payload.Message
}

func newTestAPI(t *testing.T) (apiClient, *testfixtures.SQLiteHarness) {
	t.Helper()

	harness := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(time.Time{})
	ids := testfixtures.NewIDGenerator("id")
	handler := newHandler(testConfig(), harness.Store, discardLogger(), ids.NextFunc(), clock.NowFunc(), nil)
	return apiClient{t: t, handler: handler}, harness
}

func TestShiftWorkflowOverSQLite(t *testing.T) {
	api, harness := newTestAPI(t)

	status, body := api.call(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "sensei", "DisplayName": "先生", "password": "admin-pass", "admin_code": testAdminCode,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = api.call(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "hanako", "DisplayName": "花子", "password": "member-pass",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var member struct {
		ID    string `json:"id"`
		Admin bool   `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(body, &member))
	assert.False(t, member.Admin)

	adminToken := api.login("sensei", "admin-pass")
	memberToken := api.login("hanako", "member-pass")

	status, body = api.call(http.MethodPut, "/api/v1/admin/settings/dow", adminToken, map[string]bool{"wednesday": true})
	require.Equal(t, http.StatusOK, status, string(body))

	t.Run("requests follow the class day calendar", func(t *testing.T) {
		status, body := api.call(http.MethodPost, "/api/v1/shift-requests", memberToken, map[string]any{
			"date": "2025-07-09", "canwork": true, "start_time": "09:00", "end_time": "12:00",
		})
		require.Equal(t, http.StatusCreated, status, string(body))

		var created struct {
			StartTime string `json:"start_time"`
		}
		require.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, "2025-07-09T09:00:00+09:00", created.StartTime)

		status, body = api.call(http.MethodPost, "/api/v1/shift-requests", memberToken, map[string]any{"date": "2025-07-09", "canwork": false})
		require.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "その日付のシフトは既に登録されています。", message(t, body))

		status, body = api.call(http.MethodPost, "/api/v1/shift-requests", memberToken, map[string]any{"date": "2025-07-10", "canwork": true})
		require.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "授業曜日以外の日付にはシフトを登録できません。", message(t, body))
	})

	t.Run("confirmed shifts render local clock values", func(t *testing.T) {
		status, body := api.call(http.MethodPost, "/api/v1/admin/confirmed-shifts", adminToken, map[string]string{
			"user_id": member.ID, "date": "2025-07-09", "start_time": "09:00", "end_time": "17:30",
		})
		require.Equal(t, http.StatusCreated, status, string(body))

		status, body = api.call(http.MethodGet, "/api/v1/confirmed-shifts?year=2025&month=7", memberToken, nil)
		require.Equal(t, http.StatusOK, status)

		var shifts []struct {
			StartTime       string `json:"start_time"`
			EndTime         string `json:"end_time"`
			UserDisplayName string `json:"user_display_name"`
		}
		require.NoError(t, json.Unmarshal(body, &shifts))
		require.Len(t, shifts, 1)
		assert.Equal(t, "09:00", shifts[0].StartTime)
		assert.Equal(t, "17:30", shifts[0].EndTime)
		assert.Equal(t, "花子", shifts[0].UserDisplayName)
	})

	t.Run("deleting the member removes their ledgers and token", func(t *testing.T) {
		status, body := api.call(http.MethodDelete, "/api/v1/admin/users/"+member.ID, adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(body))
		assert.Equal(t, "ユーザー '花子' を削除しました。", message(t, body))

		requests, err := harness.Store.ListShiftRequests(context.Background(), persistence.LedgerFilter{UserID: member.ID})
		require.NoError(t, err)
		assert.Empty(t, requests)

		status, _ = api.call(http.MethodGet, "/api/v1/auth/me", memberToken, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestSettingsChangeAppliesToNextRequest(t *testing.T) {
	api, harness := newTestAPI(t)

	owner := testfixtures.NewUserFixture(testfixtures.WithUsername("taro"), testfixtures.WithPassword("pw"))
	harness.SeedUser(owner)
	token := api.login("taro", "pw")

	thursday := map[string]any{"date": "2025-07-10", "canwork": true}
	status, _ := api.call(http.MethodPost, "/api/v1/shift-requests", token, thursday)
	require.Equal(t, http.StatusBadRequest, status)

	harness.SetClassDays(eligibility.Settings{Thursday: true})

	status, body := api.call(http.MethodPost, "/api/v1/shift-requests", token, thursday)
	require.Equal(t, http.StatusCreated, status, string(body))
}

func TestRunMigrateAndCreateAdmin(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "cli.db")
	ctx := context.Background()

	version, err := runMigrate(ctx, cfg, discardLogger())
	require.NoError(t, err)
	assert.Positive(t, version)

	input := application.BootstrapAdminInput{Username: "root", DisplayName: "管理者", Password: "pw"}
	user, err := runCreateAdmin(ctx, cfg, discardLogger(), input)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	input.Username = "second"
	_, err = runCreateAdmin(ctx, cfg, discardLogger(), input)
	require.ErrorIs(t, err, application.ErrAdminExists)
}

func TestPromptMissing(t *testing.T) {
	t.Parallel()

	input := application.BootstrapAdminInput{Username: "root"}
	var out bytes.Buffer
	err := promptMissing(strings.NewReader("管理者\nsecret"), &out, &input)
	require.NoError(t, err)

	assert.Equal(t, "root", input.Username)
	assert.Equal(t, "管理者", input.DisplayName)
	assert.Equal(t, "secret", input.Password)
	assert.NotContains(t, out.String(), "ユーザー名")

	err = promptMissing(strings.NewReader(""), &out, &application.BootstrapAdminInput{})
	require.Error(t, err)
}

func TestOpenStoreSelectsSQLite(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "open.db")

	st, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	version, err := st.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Positive(t, version)
}

func TestRootCommandHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	root := newRootCommand(strings.NewReader(""), &out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())

	for _, name := range []string{"serve", "migrate", "create-admin"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestAdapters(t *testing.T) {
	t.Parallel()

	from := testfixtures.Date(2025, time.July, 1)
	filter := toPersistenceFilter(application.LedgerFilter{UserID: "u", From: &from})
	assert.Equal(t, "u", filter.UserID)
	require.NotNil(t, filter.DateFrom)
	assert.Nil(t, filter.DateTo)
	from = from.AddDate(0, 1, 0)
	assert.Equal(t, time.July, filter.DateFrom.Month())

	shift := toApplicationConfirmedShift(persistence.ConfirmedShift{
		ID:     "s",
		UserID: "u",
		Owner:  persistence.UserSummary{ID: "u", Username: "hanako", DisplayName: "花子"},
	})
	assert.Equal(t, "花子", shift.User.DisplayName)

	request := toApplicationShiftRequest(persistence.ShiftRequest{ID: "r", Owner: persistence.UserSummary{DisplayName: "花子"}})
	assert.Equal(t, "花子", request.UserDisplayName)
}

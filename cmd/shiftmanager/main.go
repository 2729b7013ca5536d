package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/config"
	httptransport "github.com/Taka-cst/ShiftManager/internal/http"
	"github.com/Taka-cst/ShiftManager/internal/logging"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/persistence/postgres"
	"github.com/Taka-cst/ShiftManager/internal/persistence/sqlite"
)

const tokenIssuer = "shiftmanager"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:          "shiftmanager",
		Short:        "シフト管理 API サーバー",
		Long:         "シフト希望の提出と確定シフトの管理を行う HTTP API です。サブコマンドを省略すると serve を実行します。",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve.RunE,
	}
	root.SetIn(in)
	root.SetOut(out)

	root.AddCommand(serve)
	root.AddCommand(migrateCmd())
	root.AddCommand(createAdminCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP API を起動します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "データベースのマイグレーションを適用します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			version, err := runMigrate(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "スキーマバージョン: %d\n", version)
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var input application.BootstrapAdminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "最初の管理者アカウントを作成します",
		Long:  "管理者が一人も存在しない場合に限り管理者アカウントを作成します。フラグで指定しなかった項目は対話的に入力します。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing(cmd.InOrStdin(), cmd.OutOrStdout(), &input); err != nil {
				return err
			}

			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			user, err := runCreateAdmin(cmd.Context(), cfg, logger, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "管理者 '%s' を作成しました。\n", user.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "ログインに使うユーザー名")
	cmd.Flags().StringVar(&input.DisplayName, "display-name", "", "表示名")
	cmd.Flags().StringVar(&input.Password, "password", "", "パスワード")
	return cmd
}

func loadRuntime() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("failed to load configuration", "error", err)
		return config.Config{}, nil, err
	}
	return cfg, logging.New(cfg.LogLevel), nil
}

// promptMissing asks for every field the flags left empty, one line each.
func promptMissing(in io.Reader, out io.Writer, input *application.BootstrapAdminInput) error {
	reader := bufio.NewReader(in)
	fields := []struct {
		label string
		value *string
	}{
		{"ユーザー名", &input.Username},
		{"表示名", &input.DisplayName},
		{"パスワード", &input.Password},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) != "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", field.label)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return fmt.Errorf("%sを読み取れません: %w", field.label, err)
		}
		*field.value = strings.TrimSpace(line)
	}
	return nil
}

// store is the backend contract the commands need on top of persistence.Store.
type store interface {
	persistence.Store
	SchemaVersion(ctx context.Context) (int64, error)
}

// openStore picks PostgreSQL for postgres:// URLs and SQLite otherwise.
func openStore(ctx context.Context, cfg config.Config) (store, error) {
	if cfg.IsPostgres() {
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := sqlite.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMigrated(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func runMigrate(ctx context.Context, cfg config.Config, logger *slog.Logger) (int64, error) {
	st, err := openMigrated(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer closeStore(st, logger)

	version, err := st.SchemaVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("database migrations applied", "version", version)
	return version, nil
}

func runCreateAdmin(ctx context.Context, cfg config.Config, logger *slog.Logger, input application.BootstrapAdminInput) (application.User, error) {
	st, err := openMigrated(ctx, cfg, logger)
	if err != nil {
		return application.User{}, err
	}
	defer closeStore(st, logger)

	users := newServices(cfg, st, logger, newID, time.Now).users
	return users.BootstrapAdmin(ctx, input)
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := openMigrated(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           newHandler(cfg, st, logger, newID, time.Now, registry),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("shift manager API listening", "addr", server.Addr, "postgres", cfg.IsPostgres())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		return err
	}
	return nil
}

type services struct {
	auth            *application.AuthService
	users           *application.UserService
	shiftRequests   *application.ShiftRequestService
	confirmedShifts *application.ConfirmedShiftService
	settings        *application.SettingsService
}

func newServices(cfg config.Config, st persistence.Store, logger *slog.Logger, idGenerator func() string, now func() time.Time) services {
	settings := application.NewSettingsServiceWithLogger(newSettingsRepositoryAdapter(st), logger)
	users := newUserRepositoryAdapter(st)

	return services{
		auth: application.NewAuthServiceWithLogger(
			newCredentialStoreAdapter(st),
			application.VerifyPassword,
			application.TokenSettings{Secret: cfg.SecretKey, Issuer: tokenIssuer, TTL: cfg.AccessTokenTTL},
			now,
			logger,
		),
		users:           application.NewUserServiceWithLogger(users, application.HashPassword, cfg.AdminCode, idGenerator, now, logger),
		shiftRequests:   application.NewShiftRequestServiceWithLogger(newShiftRequestRepositoryAdapter(st), settings, idGenerator, now, logger),
		confirmedShifts: application.NewConfirmedShiftServiceWithLogger(newConfirmedShiftRepositoryAdapter(st), users, idGenerator, now, logger),
		settings:        settings,
	}
}

// newHandler wires services and handlers over st. registry may be nil.
func newHandler(cfg config.Config, st persistence.Store, logger *slog.Logger, idGenerator func() string, now func() time.Time, registry *prometheus.Registry) http.Handler {
	svc := newServices(cfg, st, logger, idGenerator, now)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:            httptransport.NewAuthHandler(svc.auth, svc.users, logger),
		Users:           httptransport.NewUserHandler(svc.users, logger),
		ShiftRequests:   httptransport.NewShiftRequestHandler(svc.shiftRequests, logger),
		ConfirmedShifts: httptransport.NewConfirmedShiftHandler(svc.confirmedShifts, logger),
		Settings:        httptransport.NewSettingsHandler(svc.settings, logger),
		Tokens:          svc.auth,
		Metrics:         httptransport.NewMetrics(registry),
		Logger:          logger,
	})
}

func newID() string {
	return uuid.NewString()
}

func closeStore(st store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("failed to close storage", "error", err)
	}
}

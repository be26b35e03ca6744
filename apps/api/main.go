package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/nabyrahkigenyi-design/Komtifix/libs/mailer"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second

	previewRecipient  = "leads@komtifix.local"
	previewSender     = "noreply@komtifix.local"
	previewCredential = "log"
)

func main() {
	if err := loadDotEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &cli.App{
		Name:  "komtifix-api",
		Usage: "contact form intake for the Komtifix website",
		Action: func(c *cli.Context) error {
			return runServe(c.Context, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					return runServe(c.Context, logger)
				},
			},
			{
				Name:  "preview",
				Usage: "render both contact emails for a sample lead through the log mailer",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Value: "Jo Jansen"},
					&cli.StringFlag{Name: "email", Value: "jo@example.com"},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "service"},
					&cli.StringFlag{Name: "message", Value: "Hallo,\nKunnen jullie de kozijnen schilderen?"},
				},
				Action: func(c *cli.Context) error {
					return runPreview(c, slog.New(slog.NewTextHandler(os.Stdout, nil)))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newMailProvider(cfg *Config, logger *slog.Logger) mailer.Provider {
	if cfg.Contact.ProviderCredential != "" {
		logger.Info("mailer initialized", "provider", "resend")
		return mailer.NewResendProvider(cfg.Contact.ProviderCredential)
	}
	logger.Warn("mailer initialized without RESEND_API_KEY; contact submissions will be rejected", "provider", "log")
	return mailer.NewLogProvider(logger)
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		cfg:        cfg,
		log:        logger,
		dispatcher: NewDispatcher(cfg.Contact, cfg.Brand, newMailProvider(cfg, logger), cfg.SendTimeout, logger),
	}

	logger.Info(
		"runtime configuration",
		"env", cfg.Env,
		"addr", cfg.Addr,
		"send_timeout", cfg.SendTimeout.String(),
		"brand", cfg.Brand.Name,
	)
	if missing := cfg.Contact.Missing(); len(missing) > 0 {
		logger.Warn("contact config incomplete", "missing", missing)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.newRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting gin API", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gin API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runPreview(c *cli.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fields := map[string]string{
		"name":    c.String("name"),
		"email":   c.String("email"),
		"message": c.String("message"),
	}
	if c.IsSet("phone") {
		fields["phone"] = c.String("phone")
	}
	if c.IsSet("service") {
		fields["service"] = c.String("service")
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	sub, verr := parseContactSubmission(raw)
	if verr != nil {
		return verr
	}

	contact := ContactConfig{
		RecipientAddress:   valueOrDefaultString(cfg.Contact.RecipientAddress, previewRecipient),
		SenderAddress:      valueOrDefaultString(cfg.Contact.SenderAddress, previewSender),
		ProviderCredential: previewCredential,
	}
	dispatcher := NewDispatcher(contact, cfg.Brand, mailer.NewLogProvider(logger), cfg.SendTimeout, logger)

	result, err := dispatcher.Dispatch(c.Context, sub)
	if err != nil {
		return err
	}
	logger.Info("preview complete", "lead_id", result.LeadID, "confirm_id", valueOrDash(result.ConfirmationID))
	return nil
}

func valueOrDefaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

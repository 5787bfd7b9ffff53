package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadledger/leadledger/internal/activity"
	"github.com/leadledger/leadledger/internal/config"
	"github.com/leadledger/leadledger/internal/lockfile"
	"github.com/leadledger/leadledger/internal/mailer"
	"github.com/leadledger/leadledger/internal/notify"
	"github.com/leadledger/leadledger/internal/profile"
	"github.com/leadledger/leadledger/internal/report"
)

var (
	sendDryRun bool
	sendLimit  int
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Run an email outreach batch over stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := activity.Open(cfg.Paths.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		lock := &lockfile.Lock{Path: filepath.Join(cfg.Paths.DataDir, "send.lock")}
		batch, err := buildBatch(cfg, store)
		if err != nil {
			return err
		}

		if !batch.DryRun {
			if err := lock.Acquire(""); err != nil {
				return fmt.Errorf("send already running: %w", err)
			}
			defer lock.Release()
		}

		res, err := batch.Run()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s: sent=%d skipped=%d failed=%d\n", res.RunID, res.Sent, res.Skipped, res.Failed)

		if cfg.Notify.TelegramEnabled && !batch.DryRun {
			tg := &notify.Telegram{Token: cfg.Notify.TelegramToken, ChatID: cfg.Notify.TelegramChatID}
			summary := fmt.Sprintf("leadledger send: %d sent, %d skipped, %d failed", res.Sent, res.Skipped, res.Failed)
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := tg.Send(ctx, summary); err != nil {
				slog.Warn("Telegram notify failed", "error", err)
			}
		}
		return nil
	},
}

func buildBatch(cfg *config.Config, store *activity.Store) (*mailer.Batch, error) {
	password := ""
	if cfg.Email.PasswordEnv != "" {
		password = os.Getenv(cfg.Email.PasswordEnv)
	}
	if password == "" && !sendDryRun {
		return nil, fmt.Errorf("SMTP password env %s is empty", cfg.Email.PasswordEnv)
	}

	template := "Hello {company},\n\nI am applying for {title}.\n"
	if cfg.Email.TemplatePath != "" {
		raw, err := os.ReadFile(cfg.Email.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		template = string(raw)
	}

	// Profile values double as template variables: {name}, {email}, ...
	vars, err := profile.New(store.DB()).Load()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	sentLog := filepath.Join(cfg.Paths.DataDir, "sent_log.csv")
	rl := cfg.Email.RateLimit
	runLimit := rl.RunLimit
	if sendLimit > 0 {
		runLimit = sendLimit
	}

	return &mailer.Batch{
		Store: store,
		Sender: &mailer.SMTPSender{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.Username,
			Password: password,
			From:     cfg.Email.FromEmail,
			ReplyTo:  cfg.Email.ReplyTo,
		},
		ContactEvents: cfg.Outreach.ContactEvents,
		Quota: activity.QuotaPolicy{
			DailyLimit:       rl.DailyLimit,
			MaxDailyIncrease: rl.MaxDailyIncrease,
			RunLimit:         runLimit,
		},
		SkipSentDays: rl.SkipSentDays,
		Subject:      cfg.Email.Subject,
		Template:     template,
		Vars:         vars,
		DryRun:       sendDryRun,
		MinDelay:     time.Duration(rl.MinDelaySec) * time.Second,
		MaxDelay:     time.Duration(rl.MaxDelaySec) * time.Second,
		OnSent: func(lead activity.Lead, msg mailer.Message, at time.Time) {
			err := report.AppendSentLog(sentLog, report.SentLogRow{
				Timestamp: at,
				ToEmail:   msg.To,
				JobTitle:  lead.JobTitle,
				Company:   lead.Company,
				Location:  lead.Location,
				Source:    lead.Source,
				JobURL:    lead.URL,
			})
			if err != nil {
				slog.Warn("Sent log append failed", "error", err)
			}
		},
	}, nil
}

func init() {
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "render and report without sending or recording")
	sendCmd.Flags().IntVar(&sendLimit, "limit", 0, "max sends this run (0 uses the configured run limit)")
}

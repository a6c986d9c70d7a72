package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-tracker/tracker/internal/config"
	"project-tracker/tracker/internal/httpapi"
	"project-tracker/tracker/internal/mail"
	"project-tracker/tracker/internal/store"
	"project-tracker/tracker/internal/store/memory"
	"project-tracker/tracker/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	var st store.Store
	var closer func()

	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to init postgres store: %v", err)
		}
		st = pg
		closer = pg.Close
		log.Printf("using postgres store")
	} else {
		st = memory.NewStore()
		log.Printf("using memory store")
	}

	if closer != nil {
		defer closer()
	}

	var mailer mail.Sender
	if cfg.SMTPAddr != "" {
		mailer = &mail.SMTPSender{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		}
		log.Printf("sending codes via smtp %s", cfg.SMTPAddr)
	} else {
		mailer = mail.LogSender{}
		log.Printf("no smtp configured, codes go to the log")
	}

	if cfg.ChallengeSweepMinutes > 0 {
		if purger, ok := st.(interface {
			PurgeExpiredChallenges(ctx context.Context, before time.Time) (int, error)
		}); ok {
			go runChallengeSweepLoop(rootCtx, purger, cfg.ChallengeSweepMinutes)
		} else {
			log.Printf("challenge sweep enabled but store does not support purge")
		}
	}

	srv := httpapi.NewServer(cfg, st, mailer)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("tracker listening on %s", cfg.ListenAddr())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Printf("shutdown requested")
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}

// runChallengeSweepLoop periodically clears expired login codes so stale
// challenges do not linger on identity rows.
func runChallengeSweepLoop(
	ctx context.Context,
	purger interface {
		PurgeExpiredChallenges(ctx context.Context, before time.Time) (int, error)
	},
	intervalMinutes int,
) {
	interval := time.Duration(intervalMinutes) * time.Minute

	runOnce := func() {
		ctxPurge, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		n, err := purger.PurgeExpiredChallenges(ctxPurge, time.Now().UTC())
		if err != nil {
			log.Printf("challenge sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("challenge sweep cleared %d expired codes", n)
		}
	}

	runOnce()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}

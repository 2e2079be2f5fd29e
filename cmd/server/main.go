// partyherd-server serves the herding game over SSH. Every connection gets
// its own independent session. Build:
//
//	go build -o partyherd-server ./cmd/server
//
// Usage:
//
//	HERD_SSH_PORT=2222 HERD_SSH_HOST_KEY=server_host_key ./partyherd-server
//
// Connect:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"

	"partyherd/internal/config"
	"partyherd/internal/game"
	"partyherd/internal/scene"
	internalssh "partyherd/internal/ssh"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	signer, err := loadOrCreateHostKey(cfg.SSHHostKey)
	if err != nil {
		return err
	}

	srv := &gossh.Server{
		Addr: fmt.Sprintf(":%d", cfg.SSHPort),
		Handler: func(s gossh.Session) {
			handleSession(s, cfg, logger)
		},
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication; add gossh.PublicKeyAuth for real auth.
		HostSigners: []gossh.Signer{signer},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Printf("partyherd SSH server listening on :%d", cfg.SSHPort)
	log.Printf("Connect with:  ssh -t -p %d -o StrictHostKeyChecking=no localhost", cfg.SSHPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	return nil
}

// handleSession runs one game for the lifetime of the connection.
func handleSession(s gossh.Session, cfg config.Config, logger *slog.Logger) {
	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintf(s, "This game requires a PTY. Connect with: ssh -t -p %d <host>\n", cfg.SSHPort)
		return
	}
	if err != nil {
		fmt.Fprintf(s, "%v\n", err)
		return
	}
	defer screen.Fini()

	sessLog := logger.With("user", sanitizeName(s.User()), "remote", s.RemoteAddr().String())
	sessLog.Info("player connected")

	loader := scene.NewBuiltin(scene.Config{
		Columns: cfg.CollectableColumns,
		Rows:    cfg.CollectableRows,
	})
	g := game.New(cfg, screen, loader, nil, sessLog, time.Now())
	if err := g.Run(s.Context()); err != nil && !errors.Is(err, context.Canceled) {
		sessLog.Warn("session ended", "err", err)
	}
	sessLog.Info("player disconnected", "score", g.Score())
}

// maxNameBytes bounds user names in log lines.
const maxNameBytes = 16

// sanitizeName strips control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	n := 0
	for _, r := range name {
		if unicode.IsControl(r) {
			continue
		}
		size := len(string(r))
		if n+size > maxNameBytes {
			break
		}
		out = append(out, r)
		n += size
	}
	return string(out)
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Printf("Loaded host key from %s", path)
			return signer, nil
		}
	}

	log.Printf("Generating new ed25519 host key -> %s", path)
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "partyherd server"); err == nil {
		_ = os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600)
	}
	return signer, nil
}

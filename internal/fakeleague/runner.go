package fakeleague

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/okian/leaguetable/internal/adapters/repository"
	"github.com/okian/leaguetable/internal/domain/model"
	"github.com/okian/leaguetable/pkg/logger"
)

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	checkTimeout      = 30 * time.Second
)

// Serve runs the fake upstream on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, l *League) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(l),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	cfg := l.Config()
	logger.Get().Info(ctx, "fake league listening",
		logger.String("addr", addr),
		logger.Int("leagueID", cfg.LeagueID),
		logger.Int("managers", cfg.Managers),
		logger.Int("currentGW", cfg.CurrentGW),
		logger.Int("pages", l.Pages()),
		logger.Any("mismatched", l.Mismatched()),
	)

	errCh := make(chan error, 1)
	go func() {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Check downloads the snapshot published at url and verifies it against l.
func Check(ctx context.Context, url string, l *League) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	snap, err := fetchSnapshot(ctx, url)
	if err != nil {
		return err
	}
	if err := l.Verify(snap); err != nil {
		return err
	}
	logger.Get().Info(ctx, "snapshot matches league",
		logger.String("url", url),
		logger.Int("managers", len(snap.Managers)),
		logger.Time("generatedAt", snap.GeneratedAt),
	)
	return nil
}

func fetchSnapshot(ctx context.Context, url string) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := cleanhttp.DefaultClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot request failed with status: %d", resp.StatusCode)
	}
	return repository.Decode(body)
}

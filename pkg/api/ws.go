package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// statusFeed pushes aggregate counts to the client every push interval
// until either side goes away or the server shuts down.
func (s *Server) statusFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stop := context.AfterFunc(s.feeds, cancel)
	defer stop()

	// reads only detect the client closing
	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pushInterval)
	defer ticker.Stop()

	for {
		if err := s.pushStatus(ctx, conn); err != nil {
			s.logger.DebugContext(ctx, "websocket client gone", slog.Any("error", err))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) pushStatus(ctx context.Context, conn *websocket.Conn) error {
	sum, err := s.store.GetSummary(ctx)
	if err != nil {
		// keep the connection; the next tick may succeed
		s.logger.WarnContext(ctx, "status push skipped", slog.Any("error", err))

		return nil
	}

	update := StatusUpdate{
		Type:           "status_update",
		NodesOnline:    sum.OnlineNodes,
		NodesTotal:     sum.TotalNodes,
		AlertsCritical: sum.CriticalAlerts,
		AlertsWarning:  sum.WarningAlerts,
		Timestamp:      s.now().UTC(),
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(update)
}

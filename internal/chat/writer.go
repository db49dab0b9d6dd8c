package chat

import (
	"bufio"
	"log/slog"
	"net"
	"time"
)

// startWriter owns all writes to conn. It drains out until the channel is
// closed and flushes whenever the queue runs empty. A write error closes
// conn so the session's reader fails and the lifecycle cleans up.
func startWriter(conn net.Conn, out <-chan string, timeout time.Duration, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w := bufio.NewWriter(conn)
		for msg := range out {
			if timeout > 0 {
				_ = conn.SetWriteDeadline(time.Now().Add(timeout))
			}
			if _, err := w.WriteString(msg + "\n"); err != nil {
				logger.Info("write failed", "error", err)
				_ = conn.Close()
				return
			}
			if len(out) > 0 {
				continue
			}
			if err := w.Flush(); err != nil {
				logger.Info("flush failed", "error", err)
				_ = conn.Close()
				return
			}
		}
		if err := w.Flush(); err != nil {
			logger.Debug("final flush failed", "error", err)
		}
	}()
	return done
}

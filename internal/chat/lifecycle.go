package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"

	"golang.org/x/time/rate"
)

var whisperRe = regexp.MustCompile(`^/w\s+(\S+)\s+(.+)$`)

// HandleSession runs one connection from naming to close. The first line is
// the display name; after that each line is "quit", a "/w <name> <text>"
// private message, or a public message. limiter may be nil.
func HandleSession(s *Session, router *Router, limiter *rate.Limiter) {
	s.setState(StateNamePending)
	reader := bufio.NewReader(s.conn)

	name, err := readLine(reader)
	if err != nil {
		s.logger.Info("disconnected before naming", "error", err)
		closeSession(s)
		return
	}
	s.SetName(name)
	logger := s.logger.With("name", name)

	if err := router.Join(s); err != nil {
		logger.Error("join failed", "error", err)
		closeSession(s)
		return
	}
	s.setState(StateActive)
	logger.Info("session joined")

	defer func() {
		s.setState(StateClosing)
		router.Leave(s)
		closeSession(s)
		logger.Info("session left")
	}()

	for {
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Info("read failed", "error", err)
			}
			return
		}

		switch {
		case strings.EqualFold(line, "quit"):
			return
		case limiter != nil && !limiter.Allow():
			DroppedSends.WithLabelValues("rate_limited").Inc()
			logger.Debug("line dropped by rate limit")
		case strings.HasPrefix(line, "/w "):
			m := whisperRe.FindStringSubmatch(line)
			if m == nil || strings.TrimSpace(m[2]) == "" {
				continue
			}
			router.PrivateMessage(s, m[1], m[2])
		case line == "":
			continue
		default:
			router.Say(s, line)
		}
	}
}

// closeSession closes the transport; a failure is logged, never propagated.
func closeSession(s *Session) {
	if err := s.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn("close failed", "error", err)
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == nil {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF && line != "" {
		// last line without newline
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF {
		return "", io.EOF
	}
	return "", fmt.Errorf("read: %w", err)
}

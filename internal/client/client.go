// Package client is a terminal front end for the line chat protocol.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/samber/lo"
)

const usersPrefix = "/users "

type Client struct {
	conn   net.Conn
	logger *slog.Logger
}

// Dial connects to addr and announces name as the display name.
func Dial(ctx context.Context, addr, name string, logger *slog.Logger) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c := New(conn, logger)
	if err := c.send(name); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send name: %w", err)
	}
	return c, nil
}

// New wraps an already connected transport whose name has been sent.
func New(conn net.Conn, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{conn: conn, logger: logger}
}

// Run forwards lines from in to the server and renders server lines to out.
// It returns after "quit", when in is exhausted, when the server hangs up or
// when ctx is cancelled.
func (c *Client) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	recvDone := make(chan error, 1)
	go func() { recvDone <- c.receive(out) }()

	stop := make(chan struct{})
	lines := make(chan string)
	inDone := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		inDone <- sc.Err()
	}()

	received := false
	defer func() {
		close(stop)
		_ = c.conn.Close()
		if !received {
			<-recvDone
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.send("quit")
			return ctx.Err()
		case err := <-recvDone:
			received = true
			c.logger.Debug("server closed the connection", "error", err)
			return err
		case err := <-inDone:
			_ = c.send("quit")
			return err
		case line := <-lines:
			if err := c.send(line); err != nil {
				return err
			}
			if strings.EqualFold(line, "quit") {
				return nil
			}
		}
	}
}

func (c *Client) receive(out io.Writer) error {
	r := bufio.NewReader(c.conn)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if _, werr := fmt.Fprintln(out, Render(strings.TrimRight(line, "\r\n"))); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
	}
}

func (c *Client) send(line string) error {
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

// Render turns a server line into display text. The user list push is shown
// as a roster line; everything else passes through.
func Render(line string) string {
	if !strings.HasPrefix(line, usersPrefix) {
		return line
	}
	names := lo.Compact(strings.Split(strings.TrimPrefix(line, usersPrefix), ","))
	if len(names) == 0 {
		return "* online: (nobody)"
	}
	return "* online: " + strings.Join(names, ", ")
}

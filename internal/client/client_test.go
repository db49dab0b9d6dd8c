package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	cases := map[string]string{
		"/users alice,bob":     "* online: alice, bob",
		"/users alice":         "* online: alice",
		"/users ":              "* online: (nobody)",
		"14:02 - alice: hello": "14:02 - alice: hello",
		"User bob not found.":  "User bob not found.",
	}
	for in, want := range cases {
		require.Equal(t, want, Render(in), in)
	}
}

func TestRun_ForwardsInputAndRendersOutput(t *testing.T) {
	req := require.New(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	received := make(chan []string, 1)
	go func() {
		_, _ = io.WriteString(serverConn, "/users alice,bob\n")
		r := bufio.NewReader(serverConn)
		var lines []string
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			line = strings.TrimRight(line, "\n")
			lines = append(lines, line)
			if line == "quit" {
				break
			}
		}
		received <- lines
	}()

	var out bytes.Buffer
	c := New(clientConn, nil)
	err := c.Run(context.Background(), strings.NewReader("hello\n/w bob hi\nquit\nignored\n"), &out)
	req.NoError(err)

	select {
	case lines := <-received:
		req.Equal([]string{"hello", "/w bob hi", "quit"}, lines)
	case <-time.After(2 * time.Second):
		req.Fail("server side never saw quit")
	}
	req.Equal("* online: alice, bob\n", out.String())
}

func TestRun_ReturnsWhenServerHangsUp(t *testing.T) {
	req := require.New(t)
	serverConn, clientConn := net.Pipe()

	stdin, stdinW := io.Pipe()
	defer stdinW.Close()

	go func() {
		_, _ = io.WriteString(serverConn, "14:02 - alice: bye\n")
		_ = serverConn.Close()
	}()

	var out bytes.Buffer
	err := New(clientConn, nil).Run(context.Background(), stdin, &out)
	req.NoError(err)
	req.Equal("14:02 - alice: bye\n", out.String())
}

func TestRun_SendsQuitOnCancel(t *testing.T) {
	req := require.New(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	stdin, stdinW := io.Pipe()
	defer stdinW.Close()

	got := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(serverConn).ReadString('\n')
		got <- line
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(clientConn, nil).Run(ctx, stdin, io.Discard)
	req.ErrorIs(err, context.Canceled)
	req.Equal("quit\n", <-got)
}

func TestRun_SendsQuitWhenInputEnds(t *testing.T) {
	req := require.New(t)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	got := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(serverConn).ReadString('\n')
		got <- line
	}()

	err := New(clientConn, nil).Run(context.Background(), strings.NewReader(""), io.Discard)
	req.NoError(err)
	req.Equal("quit\n", <-got)
}

func TestDial_SendsName(t *testing.T) {
	req := require.New(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	defer ln.Close()

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- ""
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		got <- line
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, err := Dial(ctx, ln.Addr().String(), "alice", nil)
	req.NoError(err)
	defer c.conn.Close()

	req.Equal("alice\n", <-got)
}

func TestDial_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), addr, "alice", nil)
	require.Error(t, err)
}

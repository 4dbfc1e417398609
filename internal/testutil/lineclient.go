// Package testutil provides helpers for integration-testing the session
// protocol over real TCP connections.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// LineClient is a line-protocol test client for integration testing.
type LineClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
}

// NewLineClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected LineClient or fails the test.
func NewLineClient(t *testing.T, addr string) *LineClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return &LineClient{
		conn:   conn,
		reader: bufio.NewReader(conn),
		t:      t,
	}
}

// Send writes one protocol line to the server, appending \n.
//
// Precondition: text must not contain newline characters.
func (c *LineClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// ReadLine reads the next inbound line, failing the test on error or timeout.
//
// Postcondition: Returns the line without its trailing newline.
func (c *LineClient) ReadLine(timeout time.Duration) string {
	c.t.Helper()
	line, err := c.TryReadLine(timeout)
	if err != nil {
		c.t.Fatalf("reading line: %v", err)
	}
	return line
}

// TryReadLine reads the next inbound line or returns the read error
// (typically a timeout when asserting that no message arrives).
func (c *LineClient) TryReadLine(timeout time.Duration) (string, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close closes the client connection immediately, simulating a peer
// disconnect.
func (c *LineClient) Close() {
	_ = c.conn.Close()
}

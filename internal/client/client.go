// Package client implements the front-end bridge to a campaign session
// server: one outbound line at a time, one callback per inbound line in
// arrival order.
package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dungeonsync/campaignd/internal/frontend/tcp"
)

// ErrClosed is returned by SendMessage after the client has been closed.
var ErrClosed = errors.New("client: connection closed")

// Client is one connection to a session server. Front ends send with
// SendMessage and receive through the OnMessage callback; the Client
// never interprets message content.
type Client struct {
	conn   *tcp.Conn
	logger *zap.Logger

	mu      sync.Mutex
	handler func(line string)
	closed  bool

	done chan struct{}
}

// Dial connects to a session server at addr.
//
// Precondition: addr must be a "host:port" string.
// Postcondition: Returns a connected Client; the inbound loop is not
// running until Listen is called.
func Dial(addr string, logger *zap.Logger) (*Client, error) {
	raw, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	logger.Info("connected to session server",
		zap.String("addr", addr),
	)

	return &Client{
		conn:   tcp.NewConn(raw, 0, 30*time.Second),
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// OnMessage registers the inbound callback. The callback runs on the
// Listen goroutine, once per line, in arrival order. Lines arriving
// before a callback is registered are dropped.
func (c *Client) OnMessage(handler func(line string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// SendMessage writes one protocol line to the server.
//
// Precondition: text must not contain newline characters.
func (c *Client) SendMessage(text string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return c.conn.WriteLine(text)
}

// Listen runs the blocking inbound loop until the server closes the
// connection, the transport fails, or Close is called. A clean server
// close returns nil.
//
// Postcondition: Done is closed when Listen returns.
func (c *Client) Listen() error {
	defer close(c.done)

	for {
		line, err := c.conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) || c.isClosed() {
				return nil
			}
			return fmt.Errorf("reading from server: %w", err)
		}
		if line == "" {
			continue
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()

		if handler == nil {
			c.logger.Debug("dropping inbound line with no handler",
				zap.Int("len", len(line)),
			)
			continue
		}
		handler(line)
	}
}

// Done is closed when the inbound loop has exited.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection, unblocking Listen.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

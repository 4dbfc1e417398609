package tcp

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeConns(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewConn(server, 2*time.Second, 2*time.Second), client
}

func TestConnReadLine_Newline(t *testing.T) {
	conn, client := pipeConns(t)

	go func() {
		_, _ = client.Write([]byte("hello world\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
}

func TestConnReadLine_CRLF(t *testing.T) {
	conn, client := pipeConns(t)

	go func() {
		_, _ = client.Write([]byte("PLAYER_DATA Aria Elf Wizard\r\nnext\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "PLAYER_DATA Aria Elf Wizard", line)

	line, err = conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestConnReadLine_FiltersControlBytes(t *testing.T) {
	conn, client := pipeConns(t)

	go func() {
		_, _ = client.Write([]byte("a\x01b\tc\n"))
	}()

	line, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ab\tc", line, "control bytes other than tab are dropped")
}

func TestConnWriteLine(t *testing.T) {
	conn, client := pipeConns(t)

	done := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := client.Read(buf)
		done <- string(buf[:n])
	}()

	require.NoError(t, conn.WriteLine("DM: the goblin attacks"))

	select {
	case got := <-done:
		assert.Equal(t, "DM: the goblin attacks\n", got)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not receive line in time")
	}
}

func TestConnReadLine_EOFMidLine(t *testing.T) {
	conn, client := pipeConns(t)

	go func() {
		_, _ = client.Write([]byte("partial"))
		client.Close()
	}()

	line, err := conn.ReadLine()
	assert.Error(t, err)
	assert.Equal(t, "partial", line, "bytes read before the error are returned")
}

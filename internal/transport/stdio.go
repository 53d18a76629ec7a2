package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/exa-labs/exa-mcp-server-go/internal/protocol"
)

// maxScanTokenSize is the maximum buffer size for reading a single message line.
const maxScanTokenSize = 1024 * 1024 // 1MB

// Stdio serves the protocol over the process's standard streams, one
// JSON-RPC message per line. It handles a single client and never reconnects:
// it runs from process start until stdin closes or ctx is cancelled.
type Stdio struct {
	log    *slog.Logger
	server *protocol.Server
	in     io.Reader
	out    io.Writer
	mu     sync.Mutex // protects out
}

// Compile-time verification that Stdio implements Transport.
var _ Transport = (*Stdio)(nil)

// NewStdio creates a stdio transport bound to os.Stdin and os.Stdout.
func NewStdio(log *slog.Logger, server *protocol.Server) *Stdio {
	return newStdio(log, server, os.Stdin, os.Stdout)
}

// newStdio allows tests to substitute the streams.
func newStdio(log *slog.Logger, server *protocol.Server, in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		log:    log.With("component", "stdio_transport"),
		server: server,
		in:     in,
		out:    out,
	}
}

// Run reads messages until EOF or cancellation. Within the single connection,
// messages are handled strictly in arrival order.
func (t *Stdio) Run(ctx context.Context) error {
	t.log.Info("Serving on stdio")

	lines := make(chan []byte)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(t.in)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, maxScanTokenSize)

		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())

			select {
			case <-ctx.Done():
				return
			case lines <- line:
			}
		}

		if err := scanner.Err(); err != nil {
			errCh <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Stdio transport shutting down")
			return ctx.Err()

		case err := <-errCh:
			return fmt.Errorf("read stdin: %w", err)

		case line, ok := <-lines:
			if !ok {
				t.log.Info("Input closed, exiting")
				return nil
			}

			if len(line) == 0 {
				continue
			}

			resp := t.server.Handle(ctx, line)
			if resp == nil {
				continue
			}

			if err := t.write(resp); err != nil {
				return fmt.Errorf("write stdout: %w", err)
			}
		}
	}
}

func (t *Stdio) write(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.out.Write(data); err != nil {
		return err
	}

	_, err := t.out.Write([]byte{'\n'})

	return err
}

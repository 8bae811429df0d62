package asr

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Worker is a handle to a running recognizer process. Calls are serialized;
// one request line produces exactly one response line.
type Worker interface {
	Call(ctx context.Context, request, response any) error
	Close() error
}

// WorkerSpec describes the Python recognizer to boot.
type WorkerSpec struct {
	// Packages are installed into the worker's runtime environment.
	Packages []string
	// Script is the Python program implementing the line protocol.
	Script string
	// Init is sent as the first line; the worker loads its model from it
	// and answers with a ready event.
	Init any
}

type readyEvent struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// StartWorker launches the recognizer under uv and waits for it to finish
// loading its model. Cancelling ctx during load kills the process.
func StartWorker(ctx context.Context, uvBinary string, spec WorkerSpec) (Worker, error) {
	if strings.TrimSpace(uvBinary) == "" {
		uvBinary = "uv"
	}
	args := []string{"run", "--quiet", "--no-project"}
	for _, pkg := range spec.Packages {
		args = append(args, "--with", pkg)
	}
	args = append(args, "python", "-c", spec.Script)
	cmd := exec.Command(uvBinary, args...) //nolint:gosec
	return startProc(ctx, cmd, spec.Init)
}

func startProc(ctx context.Context, cmd *exec.Cmd, init any) (*procWorker, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker: %w", err)
	}

	w := &procWorker{
		cmd:        cmd,
		stdin:      stdin,
		reader:     bufio.NewReader(stdout),
		stderrDone: make(chan struct{}),
	}
	go func() {
		w.collectStderr(stderr)
		close(w.stderrDone)
	}()

	if init != nil {
		if err := w.send(init); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("send worker init: %w", err)
		}
	}

	var ready readyEvent
	if err := w.receive(ctx, &ready); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("worker startup: %w", err)
	}
	if ready.Error != "" {
		_ = w.Close()
		return nil, fmt.Errorf("worker startup: %s", ready.Error)
	}
	if ready.Event != "ready" {
		_ = w.Close()
		return nil, fmt.Errorf("worker startup: unexpected event %q", ready.Event)
	}
	return w, nil
}

// procWorker speaks the JSON line protocol over the recognizer's pipes.
type procWorker struct {
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	reader     *bufio.Reader
	stderrDone chan struct{}

	mu     sync.Mutex
	closed bool

	errMu   sync.Mutex
	errTail []string
}

func (w *procWorker) collectStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		w.errMu.Lock()
		w.errTail = append(w.errTail, scanner.Text())
		if len(w.errTail) > 20 {
			w.errTail = w.errTail[1:]
		}
		w.errMu.Unlock()
	}
}

func (w *procWorker) stderrTail() string {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return strings.TrimSpace(strings.Join(w.errTail, "\n"))
}

// Call sends one request and blocks for its response. A context cancel
// kills the worker; the caller is expected to discard the handle after any
// returned error other than a decode failure.
func (w *procWorker) Call(ctx context.Context, request, response any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("worker closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.send(request); err != nil {
		return err
	}
	return w.receive(ctx, response)
}

func (w *procWorker) send(request any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := w.stdin.Write(payload); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

type readResult struct {
	line string
	err  error
}

func (w *procWorker) receive(ctx context.Context, response any) error {
	results := make(chan readResult, 1)
	go func() {
		line, err := w.reader.ReadString('\n')
		results <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = w.cmd.Process.Kill()
		<-results
		return ctx.Err()
	case res := <-results:
		if res.err != nil {
			// A dead worker closes stderr; give the collector a moment so
			// the Python traceback makes it into the error.
			select {
			case <-w.stderrDone:
			case <-time.After(2 * time.Second):
			}
			if tail := w.stderrTail(); tail != "" {
				return fmt.Errorf("worker exited: %w: %s", res.err, tail)
			}
			return fmt.Errorf("worker exited: %w", res.err)
		}
		if err := json.Unmarshal([]byte(res.line), response); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

// Close signals shutdown by closing stdin and waits briefly before killing
// the process.
func (w *procWorker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- w.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = w.cmd.Process.Kill()
		<-done
	}
	return nil
}

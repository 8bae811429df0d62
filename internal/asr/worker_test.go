package asr

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

type initPayload struct {
	Model string `json:"model"`
}

func shWorker(t *testing.T, script string) (*procWorker, error) {
	t.Helper()
	cmd := exec.Command("sh", "-c", script)
	return startProc(context.Background(), cmd, initPayload{Model: "small"})
}

func TestWorkerHandshakeAndCall(t *testing.T) {
	script := `read init
echo '{"event":"ready"}'
while read line; do
  echo '{"value":"pong"}'
done`
	worker, err := shWorker(t, script)
	if err != nil {
		t.Fatalf("startProc: %v", err)
	}
	defer worker.Close()

	var resp struct {
		Value string `json:"value"`
	}
	if err := worker.Call(context.Background(), map[string]string{"audio": "a.wav"}, &resp); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if resp.Value != "pong" {
		t.Fatalf("value = %q", resp.Value)
	}
	if err := worker.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := worker.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := worker.Call(context.Background(), nil, &resp); err == nil {
		t.Fatal("expected error calling a closed worker")
	}
}

func TestWorkerStartupReportsLoadError(t *testing.T) {
	script := `read init
echo '{"error":"no such model"}'`
	_, err := shWorker(t, script)
	if err == nil || !strings.Contains(err.Error(), "no such model") {
		t.Fatalf("err = %v, want model load failure", err)
	}
}

func TestWorkerStartupHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	cmd := exec.Command("sh", "-c", "read init\nsleep 30")
	start := time.Now()
	_, err := startProc(ctx, cmd, initPayload{})
	if err == nil {
		t.Fatal("expected startup cancellation")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("startup cancel took %v", elapsed)
	}
}

func TestWorkerSurfacesStderrOnExit(t *testing.T) {
	script := `read init
echo 'Traceback: kaboom' >&2
exit 3`
	_, err := shWorker(t, script)
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("err = %v, want stderr detail", err)
	}
}

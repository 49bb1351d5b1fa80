package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecute(t *testing.T) {
	requireShell(t)
	exec := New()

	out, err := exec.Execute(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Execute() = %q, want hello", out)
	}
}

func TestExecuteFailureIncludesStderr(t *testing.T) {
	requireShell(t)
	exec := New()

	_, err := exec.Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail")
	}
	if !strings.Contains(err.Error(), "stderr: boom") {
		t.Errorf("error %q does not contain stderr", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	requireShell(t)
	exec := New()
	dir := t.TempDir()

	out, err := exec.ExecuteInDir(context.Background(), dir, "sh", "-c", "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("ExecuteInDir() pwd = %q, want %q", out, dir)
	}
}

func TestExecuteCancelled(t *testing.T) {
	requireShell(t)
	exec := New()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := exec.Execute(ctx, "sh", "-c", "sleep 5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want deadline exceeded", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("abcdef", 3); got != "...def" {
		t.Errorf("tail() = %q", got)
	}
	if got := tail("abc", 3); got != "abc" {
		t.Errorf("tail() = %q", got)
	}
}

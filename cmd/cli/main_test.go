package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iho/glcore/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestHashPasswordCmd(t *testing.T) {
	orig := bcryptGenerate
	bcryptGenerate = func(p []byte, cost int) ([]byte, error) {
		return []byte("hashed-value"), nil
	}
	defer func() { bcryptGenerate = orig }()

	cmd := hashPasswordCmd()
	cmd.SetArgs([]string{"secret"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if strings.TrimSpace(out) != "hashed-value" {
		t.Fatalf("expected hashed-value, got %q", out)
	}
}

func withServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	origURL, origTimeout, origToken := baseURL, timeout, token
	baseURL, timeout, token = srv.URL, 5*time.Second, "test-token"
	t.Cleanup(func() { baseURL, timeout, token = origURL, origTimeout, origToken })
}

func TestCheckReportPassed(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ledger/consistency" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("year") != "2026" || r.URL.Query().Get("period") != "3" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token")
		}
		w.Write([]byte(`{"consistent":true}`))
	})

	out := captureOutput(t, func() {
		if err := checkReport("Consistency check", "/api/v1/ledger/consistency", periodQuery(2026, 3)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if !strings.Contains(out, "Consistency check PASSED") || !strings.Contains(out, `"consistent": true`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCheckReportServerError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})

	err := checkReport("Reconciliation", "/api/v1/ledger/reconciliation", periodQuery(2026, 1))
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	cmd := tokenCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"batch-job", "--role", "controller"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Verify(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "batch-job" || string(claims.Role) != "controller" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenCmdRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	cmd := tokenCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"batch-job", "--role", "auditor"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

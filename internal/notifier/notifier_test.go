package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitquest/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	base := stubConfigDir(t)
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)

	dir, err := GetTrayAppConfigDir()
	if err != nil || dir != trayDir {
		t.Fatalf("default dir = (%s, %v), want %s", dir, err, trayDir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	custom := filepath.Join(base, "custom")
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != custom {
		t.Errorf("custom dir = %s, want %s", dir, custom)
	}

	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != trayDir {
		t.Errorf("bad settings.json should fall back to %s, got %s", trayDir, dir)
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "two parts", content: "8080|12345", wantErr: "malformed"},
		{name: "garbage", content: "invalid", wantErr: "malformed"},
		{name: "empty secret", content: "8080|12345|", wantErr: "secret"},
		{name: "empty port", content: "|12345|s3cret", wantErr: "port"},
		{name: "port out of range", content: "99999|12345|s3cret", wantErr: "range"},
		{name: "bad pid", content: "8080|abc|s3cret", wantErr: "process ID"},
		{name: "valid", content: "8080|12345|s3cret\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock, err := parseLockfile(tt.content)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if lock.Port != 8080 || lock.PID != 12345 || lock.Secret != "s3cret" {
					t.Errorf("lock = %+v", lock)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile = %v, want ErrTrayNotRunning", err)
	}
	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret"), 0644); err != nil {
		t.Fatal(err)
	}

	stubProcess(t, "")
	if _, err := findAndValidateTrayProcess(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing process = %v, want ErrTrayNotRunning", err)
	}

	stubProcess(t, "other-app")
	if _, err := findAndValidateTrayProcess(lockfile); err == nil {
		t.Error("expected error for wrong executable")
	}

	stubProcess(t, constants.TrayAppExecutable)
	lock, err := findAndValidateTrayProcess(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.Port != 8080 || lock.Secret != "s3cret" {
		t.Errorf("lock = %+v", lock)
	}
}

func newTrayServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32, *[]string) {
	t.Helper()
	var calls atomic.Int32
	var texts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(secretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		texts = append(texts, payload.Text)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls, &texts
}

func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func TestSend(t *testing.T) {
	server, _, texts := newTrayServer(t, 0)
	port := serverPort(t, server)
	n := New()
	ctx := context.Background()

	if err := n.send(ctx, lockInfo{Port: port, Secret: "test-secret"}, WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(*texts) != 1 || (*texts)[0] != "hello" {
		t.Errorf("server received %v", *texts)
	}

	err := n.send(ctx, lockInfo{Port: port, Secret: "wrong"}, WebhookPayload{Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("wrong secret error = %v", err)
	}
}

func TestNotifyRetries(t *testing.T) {
	base := stubConfigDir(t)
	stubProcess(t, constants.TrayAppExecutable)

	server, calls, texts := newTrayServer(t, 1)
	trayDir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%d|%d|test-secret", serverPort(t, server), os.Getpid())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}

	n := New()
	n.retry = time.Millisecond
	if err := n.Notify(context.Background(), "Badge unlocked: First Step"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
	if len(*texts) != 1 || (*texts)[0] != "Badge unlocked: First Step" {
		t.Errorf("server received %v", *texts)
	}
}

func TestNotifyWithoutTray(t *testing.T) {
	stubConfigDir(t)
	if err := New().Notify(context.Background(), "hello"); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("Notify() = %v, want ErrTrayNotRunning", err)
	}
}

package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitquest/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no tray app is listening. Callers treat it as
// "notifications unavailable" rather than a failure.
var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

const secretHeader = "X-Habitquest-Secret"

// Notifier delivers desktop notifications through the tray app's local
// webhook.
type Notifier struct {
	client *http.Client
	retry  time.Duration
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// lockInfo is the tray app's lockfile: "port|pid|secret".
type lockInfo struct {
	Port   int
	PID    int
	Secret string
}

func New() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: 2 * time.Second},
		retry:  constants.NotifyRetryDelay,
	}
}

// Notify sends text to the running tray app, retrying transient failures.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	lock, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}
	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retry):
			}
		}
		if lastErr = n.send(ctx, lock, payload); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("notification failed after %d attempts: %w", constants.NotifyMaxRetries, lastErr)
}

// GetTrayAppConfigDir returns the directory holding the tray app's lockfile.
// The tray app may point it elsewhere through lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayDir, "settings.json"))
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

func parseLockfile(content string) (lockInfo, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockInfo{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return lockInfo{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return lockInfo{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockInfo{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return lockInfo{}, errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(parts[2]) == "" {
		return lockInfo{}, errors.New("secret in lockfile is empty")
	}
	return lockInfo{Port: port, PID: pid, Secret: parts[2]}, nil
}

func findAndValidateTrayProcess(lockfilePath string) (lockInfo, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return lockInfo{}, ErrTrayNotRunning
	}
	lock, err := parseLockfile(string(content))
	if err != nil {
		return lockInfo{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return lockInfo{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return lockInfo{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayAppExecutable, process.Executable())
	}
	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock lockInfo, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}

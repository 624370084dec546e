package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitquest/internal/constants"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether s looks like a PostgreSQL URL rather than a
// SQLite file path.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// dsnParams splits a key=value DSN into lower-cased keys.
func dsnParams(connStr string) map[string]string {
	params := map[string]string{}
	for _, field := range strings.Fields(connStr) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return params
}

func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	_, ok := dsnParams(connStr)[key]
	return ok
}

func hasSearchPathParam(connStr string) bool { return hasParam(connStr, "search_path") }
func hasSSLMode(connStr string) bool         { return hasParam(connStr, "sslmode") }

// withSearchPath pins the session to the application schema unless the
// caller chose one.
func withSearchPath(connStr string) string {
	if hasSearchPathParam(connStr) {
		return connStr
	}
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// ValidateConnString checks that connStr parses as a PostgreSQL URL or DSN
// and carries no password. Passwords come from the environment, .pgpass or
// the OS keyring instead.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return false, ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return true, nil
	}

	if _, ok := dsnParams(connStr)["password"]; ok {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

// Redact returns connStr with any password replaced, for logs and output.
func Redact(connStr string) string {
	if IsConnString(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			return u.Redacted()
		}
		return "postgresql"
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if k, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(k, "password") {
			fields[i] = k + "=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}

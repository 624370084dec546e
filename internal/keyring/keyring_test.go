package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitquest/internal/constants"
)

func TestConnectionStringLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty keyring: got %v, want ErrNotFound", err)
	}

	connStr := "postgres://user@localhost:5432/habits?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString failed: %v", err)
	}
	if got != connStr {
		t.Errorf("got %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString failed: %v", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestSetConnectionStringRejectsEmpty(t *testing.T) {
	gokeyring.MockInit()

	for _, v := range []string{"", "   "} {
		if err := SetConnectionString(v); !errors.Is(err, ErrEmptySecret) {
			t.Errorf("SetConnectionString(%q) = %v, want ErrEmptySecret", v, err)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}

	gokeyring.MockInitWithError(errors.New("no dbus"))
	if IsAvailable() {
		t.Error("failing keyring should report unavailable")
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("got %v, want ErrKeyringUnavailable", err)
	}
}

func TestResolveConnectionString(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		env        string
		stored     string
		keyringErr error
		want       string
		wantSource Source
	}{
		{name: "nothing configured", wantSource: SourceNone},
		{name: "flag wins", flag: "postgres://flag", env: "postgres://env", stored: "postgres://kr", want: "postgres://flag", wantSource: SourceFlag},
		{name: "env over keyring", env: "postgres://env", stored: "postgres://kr", want: "postgres://env", wantSource: SourceEnv},
		{name: "keyring", stored: "postgres://kr", want: "postgres://kr", wantSource: SourceKeyring},
		{name: "unavailable keyring", keyringErr: errors.New("locked"), wantSource: SourceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.keyringErr != nil {
				gokeyring.MockInitWithError(tt.keyringErr)
			} else {
				gokeyring.MockInit()
			}
			if tt.stored != "" {
				if err := gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, tt.stored); err != nil {
					t.Fatal(err)
				}
			}
			t.Setenv(constants.EnvDBConnection, tt.env)

			got, source, err := ResolveConnectionString(tt.flag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || source != tt.wantSource {
				t.Errorf("got (%q, %s), want (%q, %s)", got, source, tt.want, tt.wantSource)
			}
		})
	}
}

package service

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeAuth struct{ loggedOut bool }

func (f *fakeAuth) Logout() error {
	f.loggedOut = true
	return nil
}

func TestLogoutClearsTokenAndCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	auth := &fakeAuth{}
	if err := NewSessionService(auth, dir, nil).Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !auth.loggedOut {
		t.Fatal("expected token cleared")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected cache removed, stat err = %v", err)
	}
}

package dynamic

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFindChrome_ConfiguredPathWins(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := FindChrome(path); got != path {
		t.Errorf("Expected configured path %s, got %s", path, got)
	}
}

func TestFindChrome_IgnoresNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "chrome")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := FindChrome(path); got == path {
		t.Errorf("Expected non-executable path to be skipped")
	}
}

func TestGetChromeVersion_Empty(t *testing.T) {
	if v := GetChromeVersion(""); v != "unknown" {
		t.Errorf("Expected 'unknown', got %s", v)
	}
}

func TestInstallLocations(t *testing.T) {
	env := map[string]string{"HOME": "/home/u", "ProgramFiles": `C:\PF`}
	getenv := func(k string) string { return env[k] }

	linux := installLocations("linux", getenv)
	if linux[0] != "/usr/bin/google-chrome-stable" {
		t.Errorf("Unexpected first linux location %s", linux[0])
	}
	if last := linux[len(linux)-1]; last != filepath.Join("/home/u", ".local", "share", "flatpak", "exports", "bin", "org.chromium.Chromium") {
		t.Errorf("Expected flatpak location last, got %s", last)
	}

	if got := len(installLocations("darwin", getenv)); got != 7 {
		t.Errorf("Expected 7 darwin locations, got %d", got)
	}
	if got := len(installLocations("windows", getenv)); got != 4 {
		t.Errorf("Expected 4 windows locations for one base dir, got %d", got)
	}
	if got := installLocations("plan9", getenv); got != nil {
		t.Errorf("Expected no locations, got %v", got)
	}
}

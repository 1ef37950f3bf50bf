// internal/engine/dynamic/chrome.go
package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
)

// browserNames are looked up in PATH as a last resort
var browserNames = []string{
	"google-chrome-stable", "google-chrome", "chromium", "chromium-browser",
	"chrome", "msedge", "brave", "brave-browser",
}

// FindChrome locates a Chromium-based browser. Lookup order: the configured
// path, CHROME_PATH, well-known install locations, then PATH. An empty
// result leaves the choice to chromedp.
func FindChrome(configured string) string {
	for _, src := range []struct{ name, path string }{
		{"config", configured},
		{"CHROME_PATH", os.Getenv("CHROME_PATH")},
	} {
		if src.path == "" {
			continue
		}
		if isExecutable(src.path) {
			return src.path
		}
		log.Warn().Str("source", src.name).Str("path", src.path).Msg("Browser path is not executable")
	}

	for _, path := range installLocations(runtime.GOOS, os.Getenv) {
		if isExecutable(path) {
			log.Debug().Str("path", path).Msg("Browser found at install location")
			return path
		}
	}

	for _, name := range browserNames {
		if path, err := exec.LookPath(name); err == nil {
			log.Debug().Str("path", path).Msg("Browser found in PATH")
			return path
		}
	}

	log.Warn().Str("os", runtime.GOOS).Msg("No browser found, falling back to chromedp lookup")
	return ""
}

// installLocations lists where browsers are usually installed on goos
func installLocations(goos string, getenv func(string) string) []string {
	home := getenv("HOME")

	switch goos {
	case "darwin":
		apps := []string{
			"Google Chrome.app/Contents/MacOS/Google Chrome",
			"Chromium.app/Contents/MacOS/Chromium",
			"Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
			"Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"Brave Browser.app/Contents/MacOS/Brave Browser",
		}
		var out []string
		for _, app := range apps {
			out = append(out, filepath.Join("/Applications", app))
		}
		if home != "" {
			out = append(out,
				filepath.Join(home, "Applications", apps[0]),
				filepath.Join(home, "Applications", apps[1]),
			)
		}
		return out

	case "windows":
		var out []string
		for _, base := range []string{getenv("ProgramFiles"), getenv("ProgramFiles(x86)"), getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			out = append(out,
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Chromium", "Application", "chrome.exe"),
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
				filepath.Join(base, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
			)
		}
		return out

	case "linux":
		out := []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/usr/bin/microsoft-edge",
			"/usr/bin/brave-browser",
		}
		if home != "" {
			flatpak := filepath.Join(home, ".local", "share", "flatpak", "exports", "bin")
			out = append(out,
				filepath.Join(flatpak, "com.google.Chrome"),
				filepath.Join(flatpak, "org.chromium.Chromium"),
			)
		}
		return out
	}
	return nil
}

// isExecutable reports whether path is a regular file that can be run.
// Windows has no execute bit, so any file qualifies there.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode()&0o111 != 0
}

// GetChromeVersion returns the browser's --version output, "detected" when
// it cannot be queried, or "unknown" for an empty path
func GetChromeVersion(chromePath string) string {
	if chromePath == "" {
		return "unknown"
	}
	// chrome.exe does not print a version
	if runtime.GOOS == "windows" {
		return "detected"
	}

	out, err := exec.Command(chromePath, "--version").Output()
	if err != nil {
		return "detected"
	}
	return strings.TrimSpace(string(out))
}

package export

import (
	"os"
	"path/filepath"
)

// Mode is the export path chosen for the environment
type Mode string

const (
	ModeNative  Mode = "native"
	ModeBrowser Mode = "browser"
)

// commonChromePaths are checked in order when no explicit path is configured
var commonChromePaths = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// ChromeLocation is where the native path finds a browser
type ChromeLocation struct {
	ExecPath  string // local binary
	RemoteURL string // DevTools websocket of a remote browser
}

// Found reports whether any browser is available
func (l ChromeLocation) Found() bool {
	return l.ExecPath != "" || l.RemoteURL != ""
}

// DetectChrome resolves a browser: a remote URL wins, then the configured path,
// then CHROME_PATH, then the common installation paths.
func DetectChrome(configuredPath, remoteURL string) ChromeLocation {
	if remoteURL != "" {
		return ChromeLocation{RemoteURL: remoteURL}
	}
	candidates := make([]string, 0, len(commonChromePaths)+2)
	if configuredPath != "" {
		candidates = append(candidates, configuredPath)
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, commonChromePaths...)

	for _, path := range candidates {
		if isExecutableFile(path) {
			return ChromeLocation{ExecPath: filepath.Clean(path)}
		}
	}
	return ChromeLocation{}
}

// DetectMode picks the native path when a browser is available, otherwise the browser path
func DetectMode(loc ChromeLocation) Mode {
	if loc.Found() {
		return ModeNative
	}
	return ModeBrowser
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}

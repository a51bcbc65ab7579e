// Package paths resolves where fixnums keeps its configuration.
//
// When running under sudo the directories of the invoking user (SUDO_USER)
// are used rather than root's, so a config written with `fixnums config init`
// is the one picked up by `sudo fixnums`.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

// ConfigEnv overrides the config file location when set.
const ConfigEnv = "FIXNUMS_CONFIG"

// UserHomeDir returns the home directory of the actual user.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir, nil
		}
	}
	return os.UserHomeDir()
}

// UserConfigDir honours XDG_CONFIG_HOME and otherwise falls back to ~/.config
// of the actual user.
func UserConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && os.Getenv("SUDO_USER") == "" {
		return xdg, nil
	}
	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// AppDir returns ~/.config/fixnums.
func AppDir() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fixnums"), nil
}

// ConfigPath returns the config file path, ~/.config/fixnums/config.toml
// unless FIXNUMS_CONFIG points elsewhere.
func ConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p, nil
	}
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

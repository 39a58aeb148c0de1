package sops

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver"
)

// MinVersion is the oldest sops release accepted for --kms encryption
const MinVersion = "3.7.0"

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ParseVersion extracts the version from `sops --version` output,
// e.g. "sops 3.9.0 (latest)".
func ParseVersion(output string) (*semver.Version, error) {
	raw := versionPattern.FindString(output)
	if raw == "" {
		return nil, fmt.Errorf("no version in sops output %q", output)
	}

	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing semver: %w", err)
	}
	return v, nil
}

// CheckVersion verifies the installed sops is at least MinVersion
func (e *KMSEncrypter) CheckVersion(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, e.Binary, "--version").Output()
	if err != nil {
		return fmt.Errorf("running %s --version: %w", e.Binary, err)
	}
	return checkVersion(string(out))
}

func checkVersion(output string) error {
	v, err := ParseVersion(output)
	if err != nil {
		return err
	}

	minSemVer, err := semver.NewVersion(MinVersion)
	if err != nil {
		return fmt.Errorf("error parsing semver: %w", err)
	}
	if v.LessThan(minSemVer) {
		return fmt.Errorf("sops %s is too old, version >= %s is required", v, MinVersion)
	}
	return nil
}

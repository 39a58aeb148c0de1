package sops

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultKMSKeyARN is the key every migrated secrets file is encrypted with
const DefaultKMSKeyARN = "arn:aws:kms:eu-central-1:123456789012:alias/gitlab-ci-sops"

// CheckSOPSInstalled returns true if the sops binary is on PATH.
func CheckSOPSInstalled() bool {
	_, err := exec.LookPath("sops")
	return err == nil
}

// CheckSOPSAvailable verifies that the sops binary is installed and a KMS
// key ARN is configured.
func CheckSOPSAvailable(kmsKeyARN string) error {
	if !CheckSOPSInstalled() {
		return fmt.Errorf("sops CLI not found: install from https://github.com/getsops/sops")
	}

	if !strings.HasPrefix(kmsKeyARN, "arn:") {
		return fmt.Errorf("invalid KMS key ARN %q", kmsKeyARN)
	}

	return nil
}

// KMSEncrypter encrypts YAML documents with sops using an AWS KMS key.
type KMSEncrypter struct {
	KeyARN string
	Binary string
}

// NewKMSEncrypter returns an encrypter bound to keyARN
func NewKMSEncrypter(keyARN string) *KMSEncrypter {
	return &KMSEncrypter{KeyARN: keyARN, Binary: "sops"}
}

// Encrypt runs sops --encrypt on plaintext and returns the encrypted YAML.
// The plaintext only ever lands in a private temp file, removed on return.
func (e *KMSEncrypter) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	tmpFile, err := os.CreateTemp("", "jenkins2gitlab-secrets-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(plaintext); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("writing temp file: %w", err)
	}

	args := []string{
		"--encrypt",
		"--kms", e.KeyARN,
		"--input-type", "yaml",
		"--output-type", "yaml",
		tmpFile.Name(),
	}
	slog.Debug("exec", "cmd", e.Binary, "args", args)

	cmd := exec.CommandContext(ctx, e.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return nil, fmt.Errorf("sops encrypt failed: %s", errMsg)
	}

	return stdout.Bytes(), nil
}

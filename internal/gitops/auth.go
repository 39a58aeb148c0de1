package gitops

import (
	"fmt"
	"os"
)

// DefaultUser is the HTTP basic-auth user GitLab accepts for personal access tokens
const DefaultUser = "oauth2"

// ResolveCredentials gets git credentials from flags or environment
func ResolveCredentials(user, token string) (string, string, error) {
	user, token = ResolveCredentialsOptional(user, token)

	if token == "" {
		return "", "", fmt.Errorf("git credentials required:\nset --token or GITLAB_TOKEN (or GIT_TOKEN) environment variable")
	}

	return user, token, nil
}

// ResolveCredentialsOptional gets git credentials if available, but doesn't error if missing
// This is useful for local commits that don't require push
func ResolveCredentialsOptional(user, token string) (string, string) {
	if user == "" {
		user = os.Getenv("GIT_USER")
		if user == "" {
			user = DefaultUser
		}
	}
	if token == "" {
		token = os.Getenv("GITLAB_TOKEN")
		if token == "" {
			token = os.Getenv("GIT_TOKEN")
		}
	}
	return user, token
}

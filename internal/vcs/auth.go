// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// authFor picks credentials for remote. Public HTTPS remotes and local
// paths need none.
func authFor(remote string) transport.AuthMethod {
	if isSSH(remote) {
		if auth := sshAuth(); auth != nil {
			return auth
		}
		return nil
	}
	if strings.HasPrefix(remote, "https://") || strings.HasPrefix(remote, "http://") {
		if auth := tokenAuth(); auth != nil {
			return auth
		}
	}
	return nil
}

func isSSH(remote string) bool {
	return strings.HasPrefix(remote, "ssh://") || strings.HasPrefix(remote, "git@")
}

func sshAuth() transport.AuthMethod {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyPath := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(keyPath); err != nil {
			continue
		}
		if auth, err := ssh.NewPublicKeysFromFile("git", keyPath, ""); err == nil {
			return auth
		}
	}
	return nil
}

// tokenAuth reads an access token from the environment.
func tokenAuth() transport.AuthMethod {
	for _, c := range []struct{ env, user string }{
		{"GITHUB_TOKEN", "x-access-token"},
		{"GITLAB_TOKEN", "gitlab-ci-token"},
		{"GIT_TOKEN", "git"},
	} {
		if token := os.Getenv(c.env); token != "" {
			return &http.BasicAuth{Username: c.user, Password: token}
		}
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"os"

	"github.com/pdiddy/pdf2md/internal/secrets"
)

// secretsDir is where per-provider key files live. Package-level var so
// tests can point it at a temp directory.
var secretsDir = ".secrets"

// placeholderKey is the value shipped in example configs. It is never a
// valid credential.
const placeholderKey = "your-api-key-here"

// resolveAPIKey resolves a credential with the precedence: explicit
// caller-supplied key, then the provider's environment variable, then the
// provider's file under .secrets/. Returns "" when nothing is configured;
// callers detect that through ValidateConfig before converting.
func resolveAPIKey(explicit, envVar, secretName string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		return ""
	}
	return loaded[secretName]
}

// validKey reports whether key is usable: non-empty and not the placeholder.
func validKey(key string) bool {
	return key != "" && key != placeholderKey
}

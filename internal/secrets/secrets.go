// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves provider credentials. Values come from the
// process environment, from dotenv files loaded at startup, or from a
// directory of plain-text files where the filename is the key name and the
// trimmed contents are the value.
//
// Recognised key files: openai-api-key, anthropic-api-key, slack-bot-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFiles loads the given dotenv files that exist, in order. Variables
// already present in the process environment are not overridden. It returns
// the files that were loaded.
func LoadEnvFiles(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return loaded, fmt.Errorf("loading %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}

// FileKey maps an environment variable name to its secrets-file name,
// e.g. OPENAI_API_KEY to openai-api-key.
func FileKey(envName string) string {
	return strings.ReplaceAll(strings.ToLower(envName), "_", "-")
}

// Credential returns the value for envName from the environment, falling
// back to the matching entry in files. It returns "" when neither is set.
func Credential(envName string, files map[string]string) string {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v
	}
	return files[FileKey(envName)]
}

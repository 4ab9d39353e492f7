// Package secrets resolves credential values from configuration or files.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret comes from.
type Source struct {
	// Name is used in error messages to identify the secret.
	Name string
	// Value is an inline secret from configuration or the environment.
	Value string
	// File points to a file holding the secret. When set it wins over Value.
	File string
}

// Load resolves the secret. The value is always trimmed; an empty result is
// an error so callers never proceed with a blank credential.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type tokenFile struct {
	Path string
}

func (t *tokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(t.Path), 0o700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(t.Path, []byte(token+"\n"), 0o600)
}

func (t *tokenFile) Load() (string, error) {
	buf, err := os.ReadFile(t.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

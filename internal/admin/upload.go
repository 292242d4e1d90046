package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

var ErrParse = errors.New("menu file is not a JSON array of menu items")

// ParseMenuFile reads the whole input before decoding, so a malformed file is
// rejected before anything is sent.
func ParseMenuFile(r io.Reader) ([]transport.MenuItemRequest, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	buf = bytes.TrimSpace(buf)
	if len(buf) == 0 || buf[0] != '[' {
		return nil, ErrParse
	}

	var reqs []transport.MenuItemRequest
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&reqs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", ErrParse)
	}
	return reqs, nil
}

func (b *Board) BulkUploadFile(ctx context.Context, path string) ([]models.MenuItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu file: %w", err)
	}
	defer f.Close()

	reqs, err := ParseMenuFile(f)
	if err != nil {
		return nil, err
	}
	return b.API.CreateMenuItems(ctx, reqs)
}

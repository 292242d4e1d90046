package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var ErrNoLastOrder = errors.New("no order has been placed yet")

// LastOrderStore keeps the id of the last submitted order on disk so it can
// be tracked from a later session.
type LastOrderStore struct {
	Path string
}

type lastOrder struct {
	OrderID  uuid.UUID `json:"orderId"`
	PlacedAt time.Time `json:"placedAt"`
}

func DefaultLastOrderPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "altazaj", "last_order.json"), nil
}

func (s *LastOrderStore) Save(id uuid.UUID) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	buf, err := json.Marshal(lastOrder{OrderID: id, PlacedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return fmt.Errorf("write last order: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

func (s *LastOrderStore) Load() (uuid.UUID, error) {
	buf, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return uuid.Nil, ErrNoLastOrder
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("read last order: %w", err)
	}
	var lo lastOrder
	if err := json.Unmarshal(buf, &lo); err != nil {
		return uuid.Nil, fmt.Errorf("parse last order: %w", err)
	}
	if lo.OrderID == uuid.Nil {
		return uuid.Nil, ErrNoLastOrder
	}
	return lo.OrderID, nil
}

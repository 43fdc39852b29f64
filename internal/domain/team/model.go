package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 40

var ErrOwnerTaken = errors.New("owner already has a team")

// Team is a fantasy roster holder. Bots have no owner.
type Team struct {
	ID        string
	Name      string
	OwnerID   string
	IsBot     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if _, err := NormalizeName(t.Name); err != nil {
		return err
	}
	if t.IsBot && t.OwnerID != "" {
		return fmt.Errorf("bot team cannot have an owner")
	}
	if !t.IsBot && strings.TrimSpace(t.OwnerID) == "" {
		return fmt.Errorf("team owner is required")
	}
	return nil
}

// NormalizeName trims name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("team name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("team name must be at most %d characters", MaxNameLength)
	}
	return name, nil
}

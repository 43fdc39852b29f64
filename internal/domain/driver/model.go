package driver

import (
	"fmt"
	"sort"
	"strings"
)

// Driver is a real F1 driver that can be drafted.
type Driver struct {
	ID              string
	Code            string
	GivenName       string
	FamilyName      string
	Nationality     string
	ConstructorID   string
	PermanentNumber int
}

func (d Driver) Name() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

func (d Driver) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("driver id is required")
	}
	if strings.TrimSpace(d.Code) == "" {
		return fmt.Errorf("driver code is required")
	}
	if strings.TrimSpace(d.FamilyName) == "" {
		return fmt.Errorf("driver family name is required")
	}
	return nil
}

// SortCatalog orders drivers by family name, given name, id.
func SortCatalog(items []Driver) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.FamilyName != b.FamilyName {
			return a.FamilyName < b.FamilyName
		}
		if a.GivenName != b.GivenName {
			return a.GivenName < b.GivenName
		}
		return a.ID < b.ID
	})
}

func IDs(items []Driver) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

package constructor

import (
	"fmt"
	"sort"
	"strings"
)

// Constructor is a real F1 team that can be drafted.
type Constructor struct {
	ID          string
	Name        string
	Nationality string
}

func (c Constructor) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("constructor id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("constructor name is required")
	}
	return nil
}

// SortCatalog orders constructors by name, id.
func SortCatalog(items []Constructor) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

func IDs(items []Constructor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

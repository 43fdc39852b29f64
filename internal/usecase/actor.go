package usecase

import "strings"

// Actor is the caller of a use case as resolved by the transport layer.
type Actor struct {
	UserID string
	Admin  bool
}

// AdminSet answers whether a user id belongs to an administrator.
type AdminSet map[string]struct{}

func NewAdminSet(userIDs []string) AdminSet {
	out := make(AdminSet, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s AdminSet) Contains(userID string) bool {
	_, ok := s[strings.TrimSpace(userID)]
	return ok
}

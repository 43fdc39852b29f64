package draft

import (
	"fmt"
	"strings"
)

// GenerateSnakeOrder lays out rounds*len(teamIDs) unresolved picks numbered
// from 1. Even rounds (0-indexed) follow teamIDs, odd rounds run in reverse.
func GenerateSnakeOrder(teamIDs []string, rounds int) ([]Pick, error) {
	if len(teamIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one team is required", ErrInvalidDraftOrder)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be >= 1", ErrInvalidDraftOrder)
	}

	seen := make(map[string]struct{}, len(teamIDs))
	for _, teamID := range teamIDs {
		id := strings.TrimSpace(teamID)
		if id == "" {
			return nil, fmt.Errorf("%w: empty team id", ErrInvalidDraftOrder)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate team id %s", ErrInvalidDraftOrder, id)
		}
		seen[id] = struct{}{}
	}

	n := len(teamIDs)
	picks := make([]Pick, 0, rounds*n)
	for round := 0; round < rounds; round++ {
		for slot := 0; slot < n; slot++ {
			idx := slot
			if round%2 == 1 {
				idx = n - 1 - slot
			}
			picks = append(picks, Pick{
				Number: round*n + slot + 1,
				TeamID: strings.TrimSpace(teamIDs[idx]),
			})
		}
	}

	return picks, nil
}

// RoundOf returns the 1-indexed round of a pick number in a draft of n teams.
func RoundOf(pickNumber, n int) int {
	if pickNumber < 1 || n < 1 {
		return 0
	}
	return (pickNumber-1)/n + 1
}

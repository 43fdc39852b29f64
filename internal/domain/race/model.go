package race

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Session is one scored part of a race weekend.
type Session string

const (
	SessionRace       Session = "race"
	SessionSprint     Session = "sprint"
	SessionQualifying Session = "qualifying"
)

func Sessions() []Session {
	return []Session{SessionRace, SessionSprint, SessionQualifying}
}

func ParseSession(raw string) (Session, error) {
	switch Session(strings.ToLower(strings.TrimSpace(raw))) {
	case SessionRace:
		return SessionRace, nil
	case SessionSprint:
		return SessionSprint, nil
	case SessionQualifying:
		return SessionQualifying, nil
	default:
		return "", fmt.Errorf("unknown session %q", raw)
	}
}

// Race is one grand prix of a season, keyed by year and round.
type Race struct {
	ID        int64
	Year      int
	Round     int
	Name      string
	Circuit   string
	Date      time.Time
	Completed bool
}

func (r Race) Validate() error {
	if r.Year < 1950 {
		return fmt.Errorf("race year must be >= 1950")
	}
	if r.Round < 1 {
		return fmt.Errorf("race round must be >= 1")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("race name is required")
	}
	return nil
}

// Result is one driver's classification in one session of a race.
type Result struct {
	RaceID        int64
	Year          int
	Round         int
	DriverID      string
	ConstructorID string
	Session       Session
	Position      int
	Points        float64
	Status        string
	RaceDate      time.Time
}

// Key identifies a race independently of its storage id.
type Key struct {
	Year  int
	Round int
}

func (r Race) Key() Key {
	return Key{Year: r.Year, Round: r.Round}
}

// SortClassification orders results by session, then finishing position with
// unclassified entries (position 0) last, then driver id.
func SortClassification(items []Result) {
	rank := make(map[Session]int, len(Sessions()))
	for i, session := range Sessions() {
		rank[session] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Session != b.Session {
			return rank[a.Session] < rank[b.Session]
		}
		if (a.Position == 0) != (b.Position == 0) {
			return b.Position == 0
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.DriverID < b.DriverID
	})
}

package race

import (
	"context"
	"time"
)

// FeedRace is one race of a results feed page, with the classification of a
// single session.
type FeedRace struct {
	Year    int
	Round   int
	Name    string
	Circuit string
	Date    time.Time
	Entries []FeedEntry
}

type FeedEntry struct {
	DriverRef       string
	DriverCode      string
	GivenName       string
	FamilyName      string
	Nationality     string
	PermanentNumber int
	ConstructorRef  string
	ConstructorName string
	ConstructorNat  string
	Position        int
	Points          float64
	Status          string
}

// SeasonFeed reads one session of a season from the results provider.
type SeasonFeed interface {
	FetchSession(ctx context.Context, year int, session Session) ([]FeedRace, error)
}

package ergast

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
)

const bahrainPageOne = `{"MRData":{"limit":"2","offset":"0","total":"3","RaceTable":{"season":"2024","Races":[
{"season":"2024","round":"1","raceName":"Bahrain Grand Prix","date":"2024-03-02",
 "Circuit":{"circuitId":"bahrain","circuitName":"Bahrain International Circuit"},
 "Results":[
  {"position":"1","points":"26","status":"Finished",
   "Driver":{"driverId":"max_verstappen","permanentNumber":"33","code":"VER","givenName":"Max","familyName":"Verstappen","nationality":"Dutch"},
   "Constructor":{"constructorId":"red_bull","name":"Red Bull","nationality":"Austrian"}},
  {"position":"2","points":"18","status":"Finished",
   "Driver":{"driverId":"perez","permanentNumber":"11","code":"PER","givenName":"Sergio","familyName":"Pérez","nationality":"Mexican"},
   "Constructor":{"constructorId":"red_bull","name":"Red Bull","nationality":"Austrian"}}
 ]}]}}}`

const bahrainPageTwo = `{"MRData":{"limit":"2","offset":"2","total":"3","RaceTable":{"season":"2024","Races":[
{"season":"2024","round":"1","raceName":"Bahrain Grand Prix","date":"2024-03-02",
 "Circuit":{"circuitId":"bahrain","circuitName":"Bahrain International Circuit"},
 "Results":[
  {"position":"3","points":"15","status":"Finished",
   "Driver":{"driverId":"sainz","permanentNumber":"55","code":"SAI","givenName":"Carlos","familyName":"Sainz","nationality":"Spanish"},
   "Constructor":{"constructorId":"ferrari","name":"Ferrari","nationality":"Italian"}}
 ]}]}}}`

func newTestClient(serverURL string, retries int) *Client {
	return NewClient(ClientConfig{
		BaseURL:      serverURL,
		Timeout:      time.Second,
		MaxRetries:   retries,
		PageSize:     2,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})
}

func TestFetchSession_PagesAndMergesRounds(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/2024/results.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected limit %s", r.URL.Query().Get("limit"))
		}
		switch r.URL.Query().Get("offset") {
		case "0":
			_, _ = fmt.Fprint(w, bahrainPageOne)
		case "2":
			_, _ = fmt.Fprint(w, bahrainPageTwo)
		default:
			t.Errorf("unexpected offset %s", r.URL.Query().Get("offset"))
		}
	}))
	defer srv.Close()

	races, err := newTestClient(srv.URL, 0).FetchSession(t.Context(), 2024, race.SessionRace)
	if err != nil {
		t.Fatalf("fetch session: %v", err)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", requests.Load())
	}
	if len(races) != 1 {
		t.Fatalf("expected one merged race, got %d", len(races))
	}

	got := races[0]
	if got.Year != 2024 || got.Round != 1 || got.Circuit != "Bahrain International Circuit" {
		t.Fatalf("unexpected race: %+v", got)
	}
	if !got.Date.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected race date: %v", got.Date)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Entries))
	}
	first := got.Entries[0]
	if first.DriverRef != "max_verstappen" || first.DriverCode != "VER" || first.PermanentNumber != 33 ||
		first.ConstructorRef != "red_bull" || first.Points != 26 || first.Position != 1 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
}

func TestFetchSession_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, `{"MRData":{"limit":"2","offset":"0","total":"0","RaceTable":{"Races":[]}}}`)
	}))
	defer srv.Close()

	races, err := newTestClient(srv.URL, 2).FetchSession(t.Context(), 2024, race.SessionSprint)
	if err != nil {
		t.Fatalf("fetch session: %v", err)
	}
	if len(races) != 0 {
		t.Fatalf("expected no races, got %d", len(races))
	}
	if requests.Load() != 2 {
		t.Fatalf("expected one retry, got %d requests", requests.Load())
	}
}

func TestFetchSession_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).FetchSession(t.Context(), 2024, race.SessionQualifying)
	if err == nil {
		t.Fatalf("expected error")
	}
	if isCircuitFailure(err) {
		t.Fatalf("404 must not count as transient: %v", err)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected a single request, got %d", requests.Load())
	}
}

func TestFetchSession_OpenCircuitRejects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchSession(t.Context(), 2024, race.SessionRace); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchSession(t.Context(), 2024, race.SessionRace)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestFetchSession_RejectsUnknownSession(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://127.0.0.1:1", 0).FetchSession(t.Context(), 2024, race.Session("practice"))
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

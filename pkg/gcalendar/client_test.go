package gcalendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"calendar-assistant/pkg/gcalendar"
)

// rewriteTransport redirects googleapis.com traffic to a local test server.
type rewriteTransport struct {
	Transport http.RoundTripper
	Host      string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.Host
	return t.Transport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *gcalendar.Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tsClient := ts.Client()
	tsClient.Transport = &rewriteTransport{
		Transport: tsClient.Transport,
		Host:      strings.TrimPrefix(ts.URL, "http://"),
	}

	client, err := gcalendar.NewClientFromHTTP(context.Background(), tsClient)
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	return client
}

func TestNewClientFromCredentials(t *testing.T) {
	oauthCreds := `{
		"installed": {
			"client_id": "test-client-id.apps.googleusercontent.com",
			"project_id": "test-project",
			"client_secret": "test-secret",
			"redirect_uris": ["http://localhost"]
		}
	}`

	t.Run("unsupported credentials format", func(t *testing.T) {
		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(`{"broken":true}`))
		if err == nil {
			t.Errorf("expected error for credentials without installed or service account fields")
		}
	})

	t.Run("oauth desktop credentials with token.json", func(t *testing.T) {
		os.WriteFile("token.json", []byte(`{"access_token":"dummy","token_type":"Bearer","expiry":"2030-01-01T00:00:00Z"}`), 0644)
		defer os.Remove("token.json")

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(oauthCreds))
		if err != nil {
			t.Fatalf("expected oauth credentials to parse: %v", err)
		}
	})

	t.Run("oauth desktop credentials without token.json", func(t *testing.T) {
		os.Remove("token.json")

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(oauthCreds))
		if err == nil || !strings.Contains(err.Error(), "token.json") {
			t.Errorf("expected missing token.json error, got: %v", err)
		}
	})

	t.Run("oauth desktop credentials with corrupt token.json", func(t *testing.T) {
		os.WriteFile("token.json", []byte(`{"broken":`), 0644)
		defer os.Remove("token.json")

		_, err := gcalendar.NewClientFromCredentialsJSON(context.Background(), []byte(oauthCreds))
		if err == nil {
			t.Errorf("expected error for corrupt token.json")
		}
	})

	t.Run("credentials from file", func(t *testing.T) {
		tmpFile, err := os.CreateTemp("", "creds-*.json")
		if err != nil {
			t.Fatal(err)
		}
		defer os.Remove(tmpFile.Name())
		tmpFile.WriteString(`{"broken":true}`)
		tmpFile.Close()

		if _, err := gcalendar.NewClientFromCredentialsFile(context.Background(), tmpFile.Name()); err == nil {
			t.Errorf("expected failure loading broken credentials file")
		}
		if _, err := gcalendar.NewClientFromCredentialsFile(context.Background(), "no-such-credentials.json"); err == nil {
			t.Errorf("expected error reading missing file")
		}
	})
}

func TestCreateEvent(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Yekaterinburg")
	start := time.Date(2026, 8, 30, 17, 0, 0, 0, loc)

	var posted struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Start       struct {
			DateTime string `json:"dateTime"`
			TimeZone string `json:"timeZone"`
		} `json:"start"`
		Attendees []struct {
			Email string `json:"email"`
		} `json:"attendees"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar/v3/calendars/primary/events" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"id": "evt-42",
			"summary": "Meeting with Anna",
			"htmlLink": "https://calendar.google.com/event?eid=evt-42",
			"status": "confirmed"
		}`))
	})

	event, err := client.CreateEvent(context.Background(), gcalendar.CreateEventRequest{
		Summary:       "Meeting with Anna",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Timezone:      "Asia/Yekaterinburg",
		AttendeeMails: []string{"anna@example.com"},
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if event.HtmlLink != "https://calendar.google.com/event?eid=evt-42" {
		t.Errorf("unexpected link: %s", event.HtmlLink)
	}
	if event.ID != "evt-42" {
		t.Errorf("unexpected id: %s", event.ID)
	}

	// Empty CalendarID must default to primary; the handler above 404s otherwise.
	if posted.Summary != "Meeting with Anna" {
		t.Errorf("unexpected posted summary: %q", posted.Summary)
	}
	if posted.Start.TimeZone != "Asia/Yekaterinburg" {
		t.Errorf("unexpected posted timezone: %q", posted.Start.TimeZone)
	}
	if posted.Start.DateTime != start.Format(time.RFC3339) {
		t.Errorf("unexpected posted start: %q", posted.Start.DateTime)
	}
	if len(posted.Attendees) != 1 || posted.Attendees[0].Email != "anna@example.com" {
		t.Errorf("unexpected posted attendees: %+v", posted.Attendees)
	}
}

func TestCreateEventAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "insufficient permissions"}}`))
	})

	_, err := client.CreateEvent(context.Background(), gcalendar.CreateEventRequest{
		Summary:   "Doomed",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatalf("expected create event error")
	}
	if !strings.Contains(err.Error(), "failed to create calendar event") {
		t.Errorf("unexpected error wrapping: %v", err)
	}
}

func TestListEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/calendar/v3/calendars/team/events":
			if r.URL.Query().Get("singleEvents") != "true" {
				t.Errorf("expected singleEvents=true, got %q", r.URL.Query().Get("singleEvents"))
			}
			if r.URL.Query().Get("orderBy") != "startTime" {
				t.Errorf("expected orderBy=startTime, got %q", r.URL.Query().Get("orderBy"))
			}
			w.Write([]byte(`{
				"items": [
					{
						"id": "evt-1",
						"summary": "Standup",
						"start": { "dateTime": "2026-08-30T09:30:00+05:00" },
						"end": { "dateTime": "2026-08-30T09:45:00+05:00" }
					},
					{
						"id": "evt-2",
						"summary": "Company holiday",
						"start": { "date": "2026-08-30" },
						"end": { "date": "2026-08-31" }
					}
				]
			}`))
		case "/calendar/v3/calendars/broken/events":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	events, err := client.ListEvents(context.Background(), gcalendar.ListEventsRequest{
		CalendarID: "team",
		TimeMin:    time.Now(),
		TimeMax:    time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Summary != "Standup" {
		t.Errorf("unexpected first event: %s", events[0].Summary)
	}
	if events[0].StartTime.IsZero() {
		t.Errorf("expected dateTime start to parse")
	}
	if events[1].StartTime.Format("2006-01-02") != "2026-08-30" {
		t.Errorf("expected all-day date to parse, got %v", events[1].StartTime)
	}

	if _, err := client.ListEvents(context.Background(), gcalendar.ListEventsRequest{
		CalendarID: "broken",
		TimeMin:    time.Now(),
		TimeMax:    time.Now().Add(24 * time.Hour),
	}); err == nil {
		t.Fatalf("expected api error")
	}
}

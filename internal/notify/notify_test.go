// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner/runnertest"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

func details() Details {
	return Details{
		Metadata: types.Metadata{
			Filename:  "Walter_Evans_Rational_Irrationality_20260304.pdf",
			Title:     "Rational Irrationality: Markets, Minds",
			Author:    "Walter Evans",
			ORCID:     "0000-0001-2345-6789",
			Date:      "March 04, 2026",
			DateShort: "20260304",
			Keywords:  "behavioral finance, heuristics",
			JELCodes:  "G41, D91",
			EJournals: "Behavioral & Experimental Economics",
			Abstract:  strings.Repeat("a", 250),
		},
		DriveLink:     "https://drive.example/abc",
		CommitURL:     "https://github.com/u/r/commit/123",
		QualityPassed: true,
	}
}

func denver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	return loc
}

func TestNextReminder(t *testing.T) {
	loc := denver(t)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before", time.Date(2026, 3, 4, 8, 0, 0, 0, loc), time.Date(2026, 3, 4, 9, 5, 0, 0, loc)},
		{"exactly at", time.Date(2026, 3, 4, 9, 5, 0, 0, loc), time.Date(2026, 3, 5, 9, 5, 0, 0, loc)},
		{"later hour earlier minute", time.Date(2026, 3, 4, 10, 2, 0, 0, loc), time.Date(2026, 3, 5, 9, 5, 0, 0, loc)},
		{"month rollover", time.Date(2026, 3, 31, 20, 0, 0, 0, loc), time.Date(2026, 4, 1, 9, 5, 0, 0, loc)},
		{"other zone input", time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC), time.Date(2026, 3, 4, 9, 5, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextReminder(tt.now, "09:05", loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err := NextReminder(time.Now(), "9am", loc)
	assert.Error(t, err)
}

func TestBuildEmail(t *testing.T) {
	e := BuildEmail(details(), "me@example.org")
	assert.Equal(t, []string{"me@example.org"}, e.To)
	assert.Equal(t, "New SSRN Paper Generated: Rational Irrationality: Markets, Minds", e.Subject)
	assert.Contains(t, e.Body, "Short Title: Rational Irrationality\n")
	assert.Contains(t, e.Body, "Walter Evans (ORCID: 0000-0001-2345-6789)")
	assert.Contains(t, e.Body, "Drive PDF: https://drive.example/abc")
	assert.Contains(t, e.Body, "Git Commit: https://github.com/u/r/commit/123")
	assert.Contains(t, e.Body, "All quality checks passed")
	assert.Contains(t, e.Body, strings.Repeat("a", 200)+"...")
	assert.NotContains(t, e.Body, strings.Repeat("a", 201))

	d := details()
	d.DriveLink, d.CommitURL, d.QualityPassed = "", "", false
	d.Metadata.ORCID = ""
	e = BuildEmail(d, "")
	assert.Nil(t, e.To)
	assert.Contains(t, e.Body, "Drive PDF: Not available")
	assert.NotContains(t, e.Body, "Git Commit")
	assert.NotContains(t, e.Body, "ORCID")
	assert.Contains(t, e.Body, "reported warnings")
}

func TestBuildEvent(t *testing.T) {
	start := time.Date(2026, 3, 5, 9, 5, 0, 0, time.FixedZone("MST", -7*3600))
	ev := BuildEvent(details(), start)

	assert.Equal(t, "SSRN Paper Ready: Rational Irrationality", ev.Summary)
	assert.Equal(t, 15*time.Minute, ev.End.Sub(ev.Start))
	assert.Equal(t, []int{15}, ev.Reminders)
	assert.Contains(t, ev.Description, "Git Commit: https://github.com/u/r/commit/123")

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_time":"2026-03-05T09:05:00-07:00"`)
	assert.Contains(t, string(data), `"end_time":"2026-03-05T09:20:00-07:00"`)
}

func TestICS(t *testing.T) {
	start := time.Date(2026, 3, 5, 16, 5, 0, 0, time.UTC)
	ev := Event{Summary: "Ready; now", Description: "a,b\nc", Start: start, End: start.Add(ReminderDuration), Reminders: []int{15}}
	s := ICS(ev, "uid-1", start)

	assert.True(t, strings.HasPrefix(s, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, s, "DTSTART:20260305T160500Z\r\n")
	assert.Contains(t, s, "DTEND:20260305T162000Z\r\n")
	assert.Contains(t, s, `SUMMARY:Ready\; now`)
	assert.Contains(t, s, `DESCRIPTION:a\,b\nc`)
	assert.Contains(t, s, "TRIGGER:-PT15M")
	assert.True(t, strings.HasSuffix(s, "END:VCALENDAR\r\n"))
}

func newSender(t *testing.T, cfg types.NotifyConfig) (*Sender, string) {
	dir := t.TempDir()
	s := New(cfg, dir, nil, runnertest.New())
	s.Now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }
	return s, dir
}

func TestNotifyWebhook(t *testing.T) {
	var got Message
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	s, dir := newSender(t, types.NotifyConfig{WebhookURL: ts.URL, Recipient: "me@example.org", ReminderTime: "09:05", Timezone: "UTC"})
	s.Client = ts.Client()

	out, err := s.Notify(context.Background(), details())
	require.NoError(t, err)
	assert.True(t, out.Delivered)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"me@example.org"}, got.Email.To)
	assert.True(t, time.Date(2026, 3, 5, 9, 5, 0, 0, time.UTC).Equal(got.Event.Start))

	assert.Equal(t, dir+"/reminder_20260304.ics", out.ICSPath)
	data, err := os.ReadFile(out.ICSPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@ssrn-automation")
}

func TestNotifyWebhookFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer ts.Close()

	s, _ := newSender(t, types.NotifyConfig{WebhookURL: ts.URL})
	s.Client = ts.Client()
	out, err := s.Notify(context.Background(), details())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad payload")
	assert.False(t, out.Delivered)
	assert.FileExists(t, out.ICSPath)
}

func TestNotifyCommand(t *testing.T) {
	s, _ := newSender(t, types.NotifyConfig{Command: []string{"send-mail", "--json"}})
	fake := runnertest.New()
	s.Exec = fake

	out, err := s.Notify(context.Background(), details())
	require.NoError(t, err)
	assert.True(t, out.Delivered)
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, "send-mail --json", fake.Calls[0].String())

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(fake.Stdins[0]), &msg))
	assert.Equal(t, details().Metadata.Title, strings.TrimPrefix(msg.Email.Subject, "New SSRN Paper Generated: "))
}

func TestNotifyWithoutChannel(t *testing.T) {
	s, _ := newSender(t, types.NotifyConfig{})
	out, err := s.Notify(context.Background(), details())
	assert.ErrorIs(t, err, ErrNoChannel)
	assert.False(t, out.Delivered)
	assert.FileExists(t, out.ICSPath)
}

func TestBuildRejectsBadTimezone(t *testing.T) {
	s, _ := newSender(t, types.NotifyConfig{Timezone: "Mars/Olympus"})
	_, err := s.Build(details())
	assert.Error(t, err)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const icsStamp = "20060102T150405Z"

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// ICS renders e as an iCalendar VEVENT with a display alarm.
func ICS(e Event, uid string, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//ssrn-automation//notify//EN",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + now.UTC().Format(icsStamp),
		"DTSTART:" + e.Start.UTC().Format(icsStamp),
		"DTEND:" + e.End.UTC().Format(icsStamp),
		"SUMMARY:" + icsEscaper.Replace(e.Summary),
		"DESCRIPTION:" + icsEscaper.Replace(e.Description),
	}
	for _, m := range e.Reminders {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:"+icsEscaper.Replace(e.Summary),
			fmt.Sprintf("TRIGGER:-PT%dM", m),
			"END:VALARM",
		)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

// WriteICS writes reminder_<stem>.ics into dir and returns its path.
func WriteICS(dir, stem string, e Event, uid string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating metadata directory: %w", err)
	}
	path := filepath.Join(dir, "reminder_"+stem+".ics")
	if err := os.WriteFile(path, []byte(ICS(e, uid, now)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

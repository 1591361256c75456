// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify tells the author a paper is ready: an email message and a
// calendar reminder, delivered through a webhook or a local command.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/naming"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// ReminderDuration is the length of the calendar reminder.
const ReminderDuration = 15 * time.Minute

// abstractExcerptChars bounds the abstract quoted in the email.
const abstractExcerptChars = 200

// Details is everything a notification reports about one paper.
type Details struct {
	Metadata      types.Metadata
	DriveLink     string
	CommitURL     string
	QualityPassed bool
}

// Email is a plain-text message.
type Email struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Event is a calendar reminder.
type Event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`

	// Reminders are alert offsets in minutes before Start.
	Reminders []int `json:"reminders"`
}

// Message is the payload delivered to the webhook or command.
type Message struct {
	Email Email `json:"email"`
	Event Event `json:"event"`
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func orUnavailable(s string) string {
	if s == "" {
		return "Not available"
	}
	return s
}

func excerpt(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// BuildEmail composes the ready-for-review message for recipient.
func BuildEmail(d Details, recipient string) Email {
	m := d.Metadata
	var b strings.Builder
	b.WriteString("New SSRN Paper Generated and Ready for Review\n\n")
	b.WriteString("A new paper draft has been generated. Review it, verify its sources, and revise it before submission.\n\n")

	b.WriteString("PAPER DETAILS:\n--------------\n")
	fmt.Fprintf(&b, "Title: %s\n", orNA(m.Title))
	fmt.Fprintf(&b, "Short Title: %s\n", orNA(naming.HumanTitle(m.Filename, m.Author)))
	fmt.Fprintf(&b, "Date Generated: %s\n", orNA(m.Date))
	author := orNA(m.Author)
	if m.ORCID != "" {
		author += " (ORCID: " + m.ORCID + ")"
	}
	fmt.Fprintf(&b, "Author: %s\n\n", author)

	b.WriteString("LINKS:\n------\n")
	fmt.Fprintf(&b, "Drive PDF: %s\n", orUnavailable(d.DriveLink))
	if d.CommitURL != "" {
		fmt.Fprintf(&b, "Git Commit: %s\n", d.CommitURL)
	}

	b.WriteString("\nQUALITY CHECK STATUS:\n--------------------\n")
	if d.QualityPassed {
		b.WriteString("All quality checks passed\n")
	} else {
		b.WriteString("Quality checks reported warnings; see the automation log\n")
	}

	fmt.Fprintf(&b, "\nABSTRACT:\n---------\n%s\n", orNA(excerpt(m.Abstract, abstractExcerptChars)))
	fmt.Fprintf(&b, "\nKEYWORDS:\n---------\n%s\n", orNA(m.Keywords))
	fmt.Fprintf(&b, "\nJEL CODES:\n----------\n%s\n", orNA(m.JELCodes))
	fmt.Fprintf(&b, "\nSUGGESTED EJOURNALS:\n-------------------\n%s\n", orNA(m.EJournals))

	b.WriteString("\nNEXT STEPS:\n-----------\n")
	b.WriteString("1. Review the paper and verify every claim and source\n")
	b.WriteString("2. Submit to SSRN once revised\n")
	b.WriteString("3. Update submission status in your tracking system\n")

	var to []string
	if recipient != "" {
		to = []string{recipient}
	}
	return Email{
		To:      to,
		Subject: "New SSRN Paper Generated: " + orNA(m.Title),
		Body:    b.String(),
	}
}

// NextReminder returns the next occurrence of clock ("HH:MM") in loc at or
// after now. A time equal to or earlier than now moves to the next day.
func NextReminder(now time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing reminder time %q: %w", clock, err)
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !start.After(local) {
		start = time.Date(local.Year(), local.Month(), local.Day()+1, t.Hour(), t.Minute(), 0, 0, loc)
	}
	return start, nil
}

// BuildEvent composes the calendar reminder starting at start.
func BuildEvent(d Details, start time.Time) Event {
	m := d.Metadata
	var b strings.Builder
	fmt.Fprintf(&b, "Full Title: %s\n\n", orNA(m.Title))
	fmt.Fprintf(&b, "Drive Link: %s\n", orUnavailable(d.DriveLink))
	if d.CommitURL != "" {
		fmt.Fprintf(&b, "\nGit Commit: %s\n", d.CommitURL)
	}
	fmt.Fprintf(&b, "\nKeywords: %s\n\nJEL Codes: %s\n\nStatus: Ready for review", orNA(m.Keywords), orNA(m.JELCodes))

	return Event{
		Summary:     "SSRN Paper Ready: " + naming.HumanTitle(m.Filename, m.Author),
		Description: b.String(),
		Start:       start,
		End:         start.Add(ReminderDuration),
		Reminders:   []int{int(ReminderDuration / time.Minute)},
	}
}

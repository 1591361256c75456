// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/httputil"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/internal/runner"
	"github.com/midnghtsapphire/SSRN-AUTOMATION/pkg/types"
)

// ErrNoChannel reports that neither a webhook nor a command is configured.
var ErrNoChannel = errors.New("no notification channel configured (set notify.webhook_url or notify.command)")

// Sender builds and delivers notifications.
type Sender struct {
	Config      types.NotifyConfig
	MetadataDir string
	Client      *http.Client
	Exec        runner.Executor

	// Now is the clock used to schedule the reminder. Tests override it.
	Now func() time.Time
}

// New returns a Sender for cfg.
func New(cfg types.NotifyConfig, metadataDir string, client *http.Client, exec runner.Executor) *Sender {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sender{Config: cfg, MetadataDir: metadataDir, Client: client, Exec: exec, Now: time.Now}
}

// Outcome reports what Notify produced.
type Outcome struct {
	Message   Message
	ICSPath   string
	Delivered bool
}

// Build composes the message for d.
func (s *Sender) Build(d Details) (Message, error) {
	tz := s.Config.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Message{}, fmt.Errorf("loading timezone %q: %w", tz, err)
	}
	clock := s.Config.ReminderTime
	if clock == "" {
		clock = "09:05"
	}
	start, err := NextReminder(s.Now(), clock, loc)
	if err != nil {
		return Message{}, err
	}
	return Message{Email: BuildEmail(d, s.Config.Recipient), Event: BuildEvent(d, start)}, nil
}

// Notify writes the reminder .ics file and delivers the message. The .ics
// file is written even when no delivery channel is configured; in that case
// the returned error is ErrNoChannel.
func (s *Sender) Notify(ctx context.Context, d Details) (Outcome, error) {
	msg, err := s.Build(d)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Message: msg}

	stem := d.Metadata.PaperType.FileTag() + d.Metadata.DateShort
	out.ICSPath, err = WriteICS(s.MetadataDir, stem, msg.Event, uuid.NewString()+"@ssrn-automation", s.Now())
	if err != nil {
		return out, err
	}

	if err := s.deliver(ctx, msg); err != nil {
		return out, err
	}
	out.Delivered = true
	return out, nil
}

func (s *Sender) deliver(ctx context.Context, msg Message) error {
	switch {
	case s.Config.WebhookURL != "":
		if _, err := httputil.PostJSON(ctx, s.Client, s.Config.WebhookURL, msg, nil, 0); err != nil {
			return fmt.Errorf("posting notification: %w", err)
		}
		return nil
	case len(s.Config.Command) > 0:
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encoding notification: %w", err)
		}
		cmd := runner.Command{
			Name:  s.Config.Command[0],
			Args:  s.Config.Command[1:],
			Stdin: bytes.NewReader(payload),
		}
		if _, err := s.Exec.Run(ctx, cmd); err != nil {
			return fmt.Errorf("running notification command: %w", err)
		}
		return nil
	}
	return ErrNoChannel
}

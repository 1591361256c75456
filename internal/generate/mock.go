// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MockBackend answers every task with fixed, topic-derived text so the
// pipeline can run end to end without an API key.
type MockBackend struct{}

var (
	mockTopicPattern   = regexp.MustCompile(`(?m)^Topic: (.+)$`)
	mockSectionPattern = regexp.MustCompile(`Draft the (.+?) section`)
	mockQuotedPattern  = regexp.MustCompile(`"([^"]+)"`)
)

func (MockBackend) Complete(_ context.Context, p Prompt) (string, error) {
	topic := "the topic"
	if m := mockTopicPattern.FindStringSubmatch(p.User); m != nil {
		topic = m[1]
	} else if m := mockQuotedPattern.FindStringSubmatch(p.User); m != nil {
		topic = m[1]
	}

	switch p.Task {
	case TaskSubNiche:
		return "Liquidity effects within " + topic, nil
	case TaskTitle:
		return "Certain Uncertainty: Revisiting " + topic, nil
	case TaskSubtitle:
		return "A framework for testing competing explanations", nil
	case TaskKeywords:
		return "market microstructure, asset pricing, behavioral finance, liquidity, market efficiency", nil
	case TaskJEL:
		return "G12, G14, D84", nil
	case TaskAbstract:
		return fmt.Sprintf("This draft examines %s. It sets out the competing explanations in the literature, "+
			"proposes an empirical design that could separate them, and discusses what each outcome would imply for "+
			"practitioners and regulators.", topic), nil
	case TaskSection:
		name := "Section"
		if m := mockSectionPattern.FindStringSubmatch(p.User); m != nil {
			name = m[1]
		}
		para := fmt.Sprintf("The %s considers %s from the perspective of market participants who face incomplete "+
			"information. Prior work frames the question in terms of prices, flows, and the incentives of "+
			"intermediaries, and each framing suggests a different test.", strings.ToLower(name), topic)
		return strings.Join([]string{para, para, para}, "\n\n"), nil
	}
	return "", fmt.Errorf("mock backend: unknown task %q", p.Task)
}

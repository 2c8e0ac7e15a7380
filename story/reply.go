package story

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// ChoiceCount is the number of options every scenario offers.
const ChoiceCount = 3

// ParseReply decodes and validates a narrator reply before any field is used.
// Every failure wraps ErrInvalidReplyShape.
func ParseReply(raw []byte) (ScenarioReply, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return ScenarioReply{}, errors.Wrap(ErrInvalidReplyShape, "reply is not a JSON object")
	}

	var reply ScenarioReply
	event, ok := fields["Event"]
	if !ok || json.Unmarshal(event, &reply.Event) != nil || strings.TrimSpace(reply.Event) == "" {
		return ScenarioReply{}, errors.Wrap(ErrInvalidReplyShape, "Event is missing")
	}

	choices, ok := fields["Choices"]
	var items []*string
	if !ok || json.Unmarshal(choices, &items) != nil || len(items) != ChoiceCount {
		return ScenarioReply{}, errors.Wrapf(ErrInvalidReplyShape, "Choices must be a list of %d strings", ChoiceCount)
	}
	for i, item := range items {
		if item == nil {
			return ScenarioReply{}, errors.Wrapf(ErrInvalidReplyShape, "choice %d is null", i+1)
		}
		reply.Choices = append(reply.Choices, *item)
	}

	for _, stat := range []struct {
		name string
		dst  *float64
	}{
		{"HP", &reply.HP},
		{"DEF", &reply.DEF},
		{"ATK", &reply.ATK},
	} {
		v, ok := fields[stat.name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) || json.Unmarshal(v, stat.dst) != nil {
			return ScenarioReply{}, errors.Wrapf(ErrInvalidReplyShape, "%s is not a number", stat.name)
		}
	}

	return reply, nil
}

package session

import (
	"context"
	"strings"
	"time"

	"adventure_shop/prompts"
	"adventure_shop/relay"
	"adventure_shop/story"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when a session already has a call in flight.
var ErrBusy = errors.New("a reply is already pending for this session")

// DefaultStats are the stats a new adventure starts with.
var DefaultStats = story.Stats{HP: 10, DEF: 10, ATK: 10}

// Transport delivers a chat request and returns the raw reply body.
// *relay.Client is the production implementation.
type Transport interface {
	Complete(ctx context.Context, req relay.Request) ([]byte, error)
}

// Options fills in every outbound request. The API key is passed through
// untouched; the relay is the one that checks it.
type Options struct {
	Model        string
	Temperature  float64
	CourseName   string
	APIKey       string
	InitialStats story.Stats
}

// Controller runs the conversation for any number of sessions.
type Controller struct {
	transport Transport
	opts      Options
}

func NewController(transport Transport, opts Options) *Controller {
	if opts.InitialStats == (story.Stats{}) {
		opts.InitialStats = DefaultStats
	}
	return &Controller{transport: transport, opts: opts}
}

// NewSession creates an idle session with the initial stats and an empty transcript.
func (c *Controller) NewSession(theme string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		phase:     PhaseIdle,
		outcome:   PhaseIdle,
	}
	s.reset(theme, c.opts.InitialStats)
	return s
}

// Start opens the adventure: the transcript is replaced by the starting
// placeholder and the stats are reset before the opening scene is requested.
func (c *Controller) Start(ctx context.Context, s *Session, theme string) error {
	if !s.begin() {
		return ErrBusy
	}
	s.reset(theme, c.opts.InitialStats, story.Turn{Text: prompts.StartingPlaceholder, IsBot: true})
	log.Info().Str("session", s.ID).Str("theme", theme).Msg("starting adventure")

	raw, err := c.transport.Complete(ctx, c.request(
		relay.Message{Role: relay.RoleSystem, Content: prompts.SystemPrompt(theme)},
		relay.Message{Role: relay.RoleUser, Content: prompts.BeginInstruction},
	))
	return c.finish(s, raw, err)
}

// Submit sends the player's text as the only message. Blank text is ignored.
// The player's turn stays in the transcript even when the call fails.
func (c *Controller) Submit(ctx context.Context, s *Session, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !s.begin() {
		return ErrBusy
	}
	s.appendTurns(story.Turn{Text: text, IsBot: false})

	raw, err := c.transport.Complete(ctx, c.request(relay.Message{Role: relay.RoleUser, Content: text}))
	return c.finish(s, raw, err)
}

// ApplyReply validates raw and, only if it is well formed, applies the stat
// delta and appends the scenario turn. A rejected reply changes nothing.
func (c *Controller) ApplyReply(s *Session, raw []byte) error {
	reply, err := story.ParseReply(raw)
	if err != nil {
		return err
	}
	stats := s.present(reply)
	if stats.Dead() {
		log.Info().Str("session", s.ID).Msg("player ran out of HP")
	}
	return nil
}

func (c *Controller) finish(s *Session, raw []byte, err error) error {
	if err == nil {
		err = c.ApplyReply(s, raw)
	}
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg("reply not applied")
		repliesTotal.WithLabelValues(errorKind(err)).Inc()
		s.settle(PhaseError, UserMessage(err))
		return err
	}
	repliesTotal.WithLabelValues("ok").Inc()
	s.settle(PhasePresenting, "")
	return nil
}

func (c *Controller) request(messages ...relay.Message) relay.Request {
	return relay.Request{
		Model:         c.opts.Model,
		Messages:      messages,
		Temperature:   c.opts.Temperature,
		CourseName:    c.opts.CourseName,
		Stream:        false,
		APIKey:        c.opts.APIKey,
		RetrievalOnly: false,
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, story.ErrInvalidReplyShape):
		return "invalid_reply"
	case errors.Is(err, story.ErrNetworkFailure):
		return "network_failure"
	case errors.Is(err, story.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, story.ErrUpstreamCallFailed), errors.Is(err, story.ErrUpstreamParse):
		return "upstream_failed"
	default:
		return "other"
	}
}

// UserMessage is the inline error text shown for a failed call.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrBusy):
		return "Still waiting for the last reply. Please hold on."
	case errors.Is(err, story.ErrInvalidReplyShape):
		return "The narrator's reply could not be understood. Please try again."
	case errors.Is(err, story.ErrNetworkFailure):
		return "Could not reach the narrator. Check your connection and try again."
	case errors.Is(err, story.ErrMissingCredential):
		return "The narrator is missing its course name or API key."
	default:
		return "Something went wrong while contacting the narrator. Please try again."
	}
}

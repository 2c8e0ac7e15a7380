package session

import (
	"sync"
	"time"

	"adventure_shop/story"
)

// Phase is where a session is in its request cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhasePresenting Phase = "presenting"
	PhaseError      Phase = "error"
)

// Session holds one player's transcript and stats. Only the Controller
// mutates it; everyone else reads a View.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	theme    string
	turns    []story.Turn
	stats    story.Stats
	phase    Phase
	outcome  Phase
	errMsg   string
	inflight bool
}

// View is a copy of a session's state, safe to render.
type View struct {
	ID      string
	Theme   string
	Turns   []story.Turn
	Stats   story.Stats
	Phase   Phase
	Outcome Phase
	Error   string
}

// Pending reports whether a reply is still being awaited.
func (v View) Pending() bool {
	return v.Phase == PhaseLoading
}

// GameOver reports whether the player has run out of HP.
func (v View) GameOver() bool {
	return v.Stats.Dead()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]story.Turn, len(s.turns))
	copy(turns, s.turns)
	return View{
		ID:      s.ID,
		Theme:   s.theme,
		Turns:   turns,
		Stats:   s.stats,
		Phase:   s.phase,
		Outcome: s.outcome,
		Error:   s.errMsg,
	}
}

// begin claims the single in-flight slot. It returns false if a call is already pending.
func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight {
		return false
	}
	s.inflight = true
	s.phase = PhaseLoading
	s.errMsg = ""
	return true
}

// settle records how the pending call ended and releases the slot.
func (s *Session) settle(outcome Phase, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = false
	s.phase = PhaseIdle
	s.outcome = outcome
	s.errMsg = errMsg
}

func (s *Session) reset(theme string, stats story.Stats, turns ...story.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.stats = stats
	s.turns = append([]story.Turn(nil), turns...)
}

func (s *Session) appendTurns(turns ...story.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
}

// present applies a validated reply in one step: stats first, then the
// scenario turn, then the game over turn when HP reached zero.
func (s *Session) present(reply story.ScenarioReply) story.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = s.stats.Apply(reply.Delta())
	s.turns = append(s.turns, story.Turn{Text: story.FormatScenario(reply, s.stats), IsBot: true})
	if s.stats.Dead() {
		s.turns = append(s.turns, story.Turn{Text: story.GameOverText, IsBot: true})
	}
	return s.stats
}

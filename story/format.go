package story

import (
	"fmt"
	"strings"
)

// GameOverText is appended once a reply leaves the player with no HP.
const GameOverText = "Game over! Your HP has dropped to 0. Head back home to begin a new adventure."

// StatLine renders the three stats on one line.
func StatLine(s Stats) string {
	return fmt.Sprintf("HP: %d | DEF: %d | ATK: %d", s.HP, s.DEF, s.ATK)
}

// FormatScenario builds the bot turn for a reply: the event, the updated stats
// and the choices numbered from 1.
func FormatScenario(reply ScenarioReply, stats Stats) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(reply.Event))
	b.WriteString("\n\n")
	b.WriteString(StatLine(stats))
	b.WriteString("\n")
	for i, choice := range reply.Choices {
		fmt.Fprintf(&b, "\n%d. %s", i+1, choice)
	}
	return b.String()
}

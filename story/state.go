package story

import "math"

// Turn is one entry in the visible transcript.
type Turn struct {
	Text  string `json:"text"`
	IsBot bool   `json:"isBot"`
}

// Stats tracks the player's attributes. Every field stays at or above zero.
type Stats struct {
	HP  int `json:"HP"`
	DEF int `json:"DEF"`
	ATK int `json:"ATK"`
}

// Delta is the stat change carried by a reply.
type Delta struct {
	HP  int
	DEF int
	ATK int
}

// MaxStat caps every stat and every delta so the arithmetic never overflows.
const MaxStat = math.MaxInt32

// Apply adds the delta field by field, clamping each result to [0, MaxStat].
func (s Stats) Apply(d Delta) Stats {
	return Stats{
		HP:  addStat(s.HP, d.HP),
		DEF: addStat(s.DEF, d.DEF),
		ATK: addStat(s.ATK, d.ATK),
	}
}

func addStat(v, d int) int {
	v = min(max(v, 0), MaxStat)
	if d > 0 && d > MaxStat-v {
		return MaxStat
	}
	return max(v+d, 0)
}

// Dead reports whether the player has run out of HP.
func (s Stats) Dead() bool {
	return s.HP == 0
}

// ScenarioReply matches the JSON structure we expect from the narrator.
type ScenarioReply struct {
	Event   string   `json:"Event"`
	Choices []string `json:"Choices"`
	HP      float64  `json:"HP"`
	DEF     float64  `json:"DEF"`
	ATK     float64  `json:"ATK"`
}

// Delta converts the reply's stat changes to whole numbers, rounding half away
// from zero. Values beyond ±MaxStat are capped before the conversion.
func (r ScenarioReply) Delta() Delta {
	return Delta{
		HP:  deltaInt(r.HP),
		DEF: deltaInt(r.DEF),
		ATK: deltaInt(r.ATK),
	}
}

func deltaInt(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(max(min(f, MaxStat), -MaxStat)))
}

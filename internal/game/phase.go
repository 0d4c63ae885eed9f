package game

// Phase is one screen of the round flow.
type Phase string

const (
	PhaseHomepage         Phase = "homepage"
	PhaseLobby            Phase = "lobby"
	PhaseWordReveal       Phase = "word-reveal"
	PhaseWriting          Phase = "writing"
	PhaseVoting           Phase = "voting"
	PhaseResults          Phase = "results"
	PhaseFinalLeaderboard Phase = "final-leaderboard"
)

// transitions is the legal phase graph. The results phase only exits
// to the final leaderboard: "next round" ends the game.
var transitions = map[Phase][]Phase{
	PhaseHomepage:         {PhaseLobby},
	PhaseLobby:            {PhaseWordReveal, PhaseHomepage},
	PhaseWordReveal:       {PhaseWriting},
	PhaseWriting:          {PhaseVoting},
	PhaseVoting:           {PhaseResults},
	PhaseResults:          {PhaseFinalLeaderboard},
	PhaseFinalLeaderboard: {PhaseHomepage},
}

// CanTransition reports whether moving from p to next is legal.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}

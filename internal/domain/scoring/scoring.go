// Package scoring computes round scores from votes on takes.
package scoring

import "github.com/HeatedDotCom/heated/internal/domain/model"

// Point values per vote category.
const (
	firePoints = 2
	okPoints   = 1
	badPoints  = 0
)

// VoteScore maps a vote category to its point value. Unrecognized
// categories score zero.
func VoteScore(voteType string) int {
	switch voteType {
	case model.VoteFire:
		return firePoints
	case model.VoteOK:
		return okPoints
	case model.VoteBad:
		return badPoints
	default:
		return 0
	}
}

// TakeResult is one take with its votes and summed score.
type TakeResult struct {
	Take  model.Take
	Votes []model.Vote
	Score int
}

// PlayerResult aggregates all of one author's takes for a round.
type PlayerResult struct {
	PlayerID string
	Score    int
	Takes    []TakeResult
}

// Tally groups votes by take, scores each take as the sum of its vote
// scores, and attributes take scores to their authors. Authors appear
// in first-seen take order so rendering is stable for a given take
// ordering.
func Tally(takes []model.Take, votes []model.Vote) []PlayerResult {
	byTake := make(map[string][]model.Vote, len(takes))
	for _, v := range votes {
		byTake[v.TakeID] = append(byTake[v.TakeID], v)
	}

	index := make(map[string]int, len(takes))
	results := make([]PlayerResult, 0, len(takes))

	for _, take := range takes {
		takeVotes := byTake[take.ID]
		score := 0
		for _, v := range takeVotes {
			score += VoteScore(v.VoteType)
		}

		i, ok := index[take.PlayerID]
		if !ok {
			i = len(results)
			index[take.PlayerID] = i
			results = append(results, PlayerResult{PlayerID: take.PlayerID})
		}
		results[i].Score += score
		results[i].Takes = append(results[i].Takes, TakeResult{
			Take:  take,
			Votes: takeVotes,
			Score: score,
		})
	}

	return results
}

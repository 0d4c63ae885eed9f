package model

// Topic fields controlling word-generation prompts and leaderboard
// partitioning.
const (
	TopicPolitics   = "politics"
	TopicPhilosophy = "philosophy"
	TopicSocial     = "social"
	TopicRandom     = "random"

	// TopicAll is only valid for leaderboard queries.
	TopicAll = "all"
)

// Topics lists the playable topic fields in menu order.
var Topics = []string{TopicPolitics, TopicPhilosophy, TopicSocial, TopicRandom}

// ValidTopic reports whether t is a playable topic field.
func ValidTopic(t string) bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}

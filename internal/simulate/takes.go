package simulate

// cannedTakes is the bots' material. Mediocre on purpose: real players
// should be able to out-take a bot.
var cannedTakes = []string{
	"this word describes my entire group chat",
	"I ran out of time thinking of something smarter",
	"sounds like a craft beer name honestly",
	"my landlord invented this concept",
	"this is just Mondays with extra steps",
	"somebody used this in a meeting once and got promoted",
	"I would tattoo this word on a rival",
	"the word of the year, every year, forever",
	"this describes the group project experience exactly",
	"no notes, the dictionary peaked here",
}

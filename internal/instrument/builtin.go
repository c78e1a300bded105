package instrument

import "github.com/abhisek/pathwise/internal/scoring"

// Likert is the 1..5 agreement scale.
var Likert = []Option{
	{Label: "Disagree", Score: 1},
	{Label: "Slightly disagree", Score: 2},
	{Label: "Neutral", Score: 3},
	{Label: "Slightly agree", Score: 4},
	{Label: "Agree", Score: 5},
}

func likert(category, text string) Question {
	return Question{Category: category, Text: text, Options: Likert}
}

// BigFive returns the personality bank.
func BigFive() *Instrument {
	return &Instrument{
		Name:    "big-five",
		Test:    "big_five",
		Title:   "Big Five Personality",
		Version: "v1.0.0",
		Questions: []Question{
			likert("extraversion", "I am the life of the party."),
			likert("extraversion", "I feel comfortable around people."),
			likert("openness", "I enjoy trying new things."),
			likert("openness", "I have a vivid imagination."),
			likert("agreeableness", "I am considerate of others."),
			likert("agreeableness", "I make people feel at ease."),
			likert("conscientiousness", "I follow a schedule."),
			likert("conscientiousness", "I pay attention to details."),
			likert("neuroticism", "I often feel anxious or stressed."),
			likert("neuroticism", "I get upset easily."),
		},
		Thresholds: scoring.Uniform(scoring.FivePoint),
		Explanations: map[string]map[string]string{
			"extraversion": {
				"low":    "You tend to be reserved and enjoy solitude.",
				"medium": "You balance social interaction and alone time.",
				"high":   "You are outgoing and energized by social situations.",
			},
			"agreeableness": {
				"low":    "You are more competitive and question others' intentions.",
				"medium": "You are cooperative yet assertive when needed.",
				"high":   "You are considerate and value harmony with others.",
			},
			"conscientiousness": {
				"low":    "You may struggle with organization and planning.",
				"medium": "You are reasonably organized and responsible.",
				"high":   "You are very organized, reliable, and goal-oriented.",
			},
			"neuroticism": {
				"low":    "You are emotionally stable and handle stress well.",
				"medium": "You experience occasional stress but manage it.",
				"high":   "You may feel anxious or stressed easily.",
			},
			"openness": {
				"low":    "You prefer routine and familiar experiences.",
				"medium": "You are open to new experiences sometimes.",
				"high":   "You enjoy exploring new ideas, creativity, and novelty.",
			},
		},
	}
}

// RIASEC returns the Holland interest bank.
func RIASEC() *Instrument {
	return &Instrument{
		Name:    "riasec",
		Test:    "riasec",
		Title:   "RIASEC Interests",
		Version: "v1.0.0",
		Questions: []Question{
			likert("Realistic", "I enjoy working with tools, machines, or computers."),
			likert("Investigative", "I like researching and analyzing information."),
			likert("Artistic", "I enjoy creative activities like painting or writing."),
			likert("Social", "I like helping others with practical tasks."),
			likert("Enterprising", "I enjoy leading and persuading people."),
			likert("Conventional", "I like organizing data and keeping things in order."),
		},
		Thresholds: scoring.Uniform(scoring.FivePoint),
	}
}

// Aptitude returns the reasoning bank. Options carry partial credit.
func Aptitude() *Instrument {
	return &Instrument{
		Name:    "aptitude",
		Test:    "aptitude",
		Title:   "Aptitude",
		Version: "v1.0.0",
		Questions: []Question{
			{
				Category: "Logical",
				Text:     "If all cats are animals and some animals are dogs, are all cats dogs?",
				Options:  []Option{{"Yes", 0}, {"No", 5}, {"Maybe", 2}, {"Cannot say", 1}},
			},
			{
				Category: "Numerical",
				Text:     "What is 25% of 200?",
				Options:  []Option{{"25", 0}, {"50", 5}, {"100", 0}, {"75", 2}},
			},
			{
				Category: "Verbal",
				Text:     "Choose the word most similar to 'Happy':",
				Options:  []Option{{"Joyful", 5}, {"Sad", 0}, {"Angry", 0}, {"Tired", 1}},
			},
			{
				Category: "Logical",
				Text:     "Which number comes next: 2, 4, 8, 16, ?",
				Options:  []Option{{"20", 0}, {"32", 5}, {"24", 1}, {"30", 0}},
			},
			{
				Category: "Numerical",
				Text:     "If a train travels 60 km in 1.5 hours, what is its speed?",
				Options:  []Option{{"30 km/h", 0}, {"40 km/h", 5}, {"45 km/h", 0}, {"50 km/h", 2}},
			},
		},
		Thresholds: scoring.Uniform(scoring.ThreeBand),
	}
}

// Builtin returns fresh copies of the shipped banks in menu order.
func Builtin() []*Instrument {
	return []*Instrument{BigFive(), RIASEC(), Aptitude()}
}

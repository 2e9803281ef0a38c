package model

// Difficulty grades a quest.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Quest is a task a user completes to earn experience and skill hours.
type Quest struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	CareerID    string     `json:"careerId,omitempty" yaml:"careerId,omitempty"`
	XPReward    int        `json:"xpReward" yaml:"xpReward"`
	SkillHours  float64    `json:"skillHours" yaml:"skillHours"`
	Skills      []string   `json:"skills,omitempty" yaml:"skills,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Achievement is unlocked once a user crosses its experience threshold and,
// when set, has completed every required quest.
type Achievement struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Icon           string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	XPThreshold    int      `json:"xpThreshold" yaml:"xpThreshold"`
	RequiredQuests []string `json:"requiredQuests,omitempty" yaml:"requiredQuests,omitempty"`
}

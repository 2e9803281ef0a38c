package model

import (
	"slices"
	"time"
)

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 1000

// User is a player profile.
type User struct {
	DisplayName     string             `json:"displayName"`
	Email           string             `json:"email,omitempty"`
	XP              int                `json:"xp"`
	SkillHours      map[string]float64 `json:"skillHours,omitempty"`
	CompletedQuests []string           `json:"completedQuests,omitempty"`
	Achievements    []string           `json:"achievements,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Level derives the user level from experience, starting at 1.
func (u *User) Level() int {
	if u.XP <= 0 {
		return 1
	}
	return u.XP/XPPerLevel + 1
}

// CompleteQuest credits the quest's rewards once. Each skill of the quest
// receives the full skill hours. It returns false when the quest was already
// completed.
func (u *User) CompleteQuest(questID string, q Quest) bool {
	if slices.Contains(u.CompletedQuests, questID) {
		return false
	}

	u.CompletedQuests = append(u.CompletedQuests, questID)
	u.XP += q.XPReward
	if q.SkillHours > 0 && len(q.Skills) > 0 {
		if u.SkillHours == nil {
			u.SkillHours = make(map[string]float64, len(q.Skills))
		}
		for _, s := range q.Skills {
			u.SkillHours[s] += q.SkillHours
		}
	}
	return true
}

// Unlock grants every achievement in catalog (ID -> Achievement) that the user
// now qualifies for and does not hold yet. Granted IDs are returned sorted.
func (u *User) Unlock(catalog map[string]Achievement) []string {
	var granted []string
	for id, a := range catalog {
		if slices.Contains(u.Achievements, id) || u.XP < a.XPThreshold {
			continue
		}
		ok := true
		for _, q := range a.RequiredQuests {
			if !slices.Contains(u.CompletedQuests, q) {
				ok = false
				break
			}
		}
		if ok {
			granted = append(granted, id)
		}
	}
	slices.Sort(granted)
	u.Achievements = append(u.Achievements, granted...)
	return granted
}

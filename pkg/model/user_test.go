package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/questvault/pkg/model"
)

func TestUser_Level(t *testing.T) {
	tests := []struct {
		xp, want int
	}{
		{0, 1}, {-5, 1}, {999, 1}, {1000, 2}, {2500, 3},
	}
	for _, tt := range tests {
		u := model.User{XP: tt.xp}
		assert.Equal(t, tt.want, u.Level(), "xp=%d", tt.xp)
	}
}

func TestUser_CompleteQuest(t *testing.T) {
	u := model.User{DisplayName: "sam"}
	q := model.Quest{Title: "First Shift", XPReward: 150, SkillHours: 2, Skills: []string{"triage", "charting"}}

	assert.True(t, u.CompleteQuest("quests/first-shift", q))
	assert.False(t, u.CompleteQuest("quests/first-shift", q), "rewards are credited once")

	assert.Equal(t, 150, u.XP)
	assert.Equal(t, map[string]float64{"triage": 2, "charting": 2}, u.SkillHours)
	assert.Equal(t, []string{"quests/first-shift"}, u.CompletedQuests)
}

func TestUser_Unlock(t *testing.T) {
	catalog := map[string]model.Achievement{
		"achievements/rookie":   {Title: "Rookie", XPThreshold: 100},
		"achievements/veteran":  {Title: "Veteran", XPThreshold: 5000},
		"achievements/on-shift": {Title: "On Shift", RequiredQuests: []string{"quests/first-shift"}},
	}

	u := model.User{XP: 120}
	assert.Equal(t, []string{"achievements/rookie"}, u.Unlock(catalog))

	u.CompleteQuest("quests/first-shift", model.Quest{XPReward: 10})
	assert.Equal(t, []string{"achievements/on-shift"}, u.Unlock(catalog))
	assert.Empty(t, u.Unlock(catalog), "held achievements are not granted twice")
	assert.ElementsMatch(t, []string{"achievements/rookie", "achievements/on-shift"}, u.Achievements)
}

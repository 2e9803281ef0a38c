package platform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questvault"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/model"
)

func TestCompleteQuest(t *testing.T) {
	for _, adapter := range []string{questvault.AdapterFS, questvault.AdapterSQLite} {
		t.Run(adapter, func(t *testing.T) {
			app, _ := setupApp(t, questvault.WithAdapter(adapter))
			ctx := context.Background()

			save := func(id string, meta core.Metadata) {
				t.Helper()
				require.NoError(t, app.Service.SaveDocument(ctx, id, "", meta))
			}
			save("users/sam", core.Metadata{"displayName": "Sam", "xp": 900})
			save("quests/first-shift", core.Metadata{
				"title": "First Shift", "xpReward": 150, "skillHours": 2, "skills": []any{"triage"},
			})
			save("achievements/level-two", core.Metadata{"title": "Level Two", "xpThreshold": 1000})
			save("achievements/on-shift", core.Metadata{
				"title": "On Shift", "xpThreshold": 0, "requiredQuests": []any{"quests/first-shift"},
			})
			save("achievements/veteran", core.Metadata{"title": "Veteran", "xpThreshold": 5000})

			res, err := app.CompleteQuest(ctx, "sam", "first-shift")
			require.NoError(t, err)
			assert.True(t, res.Credited)
			assert.Equal(t, 1050, res.XP)
			assert.Equal(t, 2, res.Level)
			assert.Equal(t, []string{"achievements/level-two", "achievements/on-shift"}, res.Unlocked)

			users := questvault.NewTypedRepository[model.User](app.Repository(), model.CollectionUsers)
			sam, err := users.Get(ctx, "sam")
			require.NoError(t, err)
			assert.Equal(t, "Sam", sam.Data.DisplayName)
			assert.Equal(t, []string{"quests/first-shift"}, sam.Data.CompletedQuests)
			assert.Equal(t, map[string]float64{"triage": 2}, sam.Data.SkillHours)

			again, err := app.CompleteQuest(ctx, "users/sam", "quests/first-shift")
			require.NoError(t, err)
			assert.False(t, again.Credited)
			assert.Empty(t, again.Unlocked)
			assert.Equal(t, 1050, again.XP)
		})
	}
}

func TestCompleteQuest_Missing(t *testing.T) {
	app, _ := setupApp(t)
	ctx := context.Background()

	_, err := app.CompleteQuest(ctx, "nobody", "first-shift")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

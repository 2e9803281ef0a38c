package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/model"
	"github.com/aretw0/questvault/pkg/typed"
)

// QuestResult is the effect of crediting one quest to a user.
type QuestResult struct {
	User     string   `json:"user"`
	Quest    string   `json:"quest"`
	Credited bool     `json:"credited"`
	XP       int      `json:"xp"`
	Level    int      `json:"level"`
	Unlocked []string `json:"unlocked,omitempty"`
}

// CompleteQuest credits the quest to the user, unlocks the achievements the
// user now qualifies for and saves the user. userKey and questKey may be keys
// or full IDs; completed quests and achievements are recorded by document ID
// ("quests/first-shift"). Completing a quest twice credits it once. The user
// is saved only when something changed.
func (a *App) CompleteQuest(ctx context.Context, userKey, questKey string) (*QuestResult, error) {
	repo := a.Repository()
	users := typed.NewRepository[model.User](repo, model.CollectionUsers)
	quests := typed.NewRepository[model.Quest](repo, model.CollectionQuests)
	achievements := typed.NewRepository[model.Achievement](repo, model.CollectionAchievements)

	user, err := users.Get(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userKey, err)
	}
	quest, err := quests.Get(ctx, questKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load quest %s: %w", questKey, err)
	}
	list, err := achievements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	catalog := make(map[string]model.Achievement, len(list))
	for _, ach := range list {
		catalog[ach.ID] = ach.Data
	}

	res := &QuestResult{User: user.ID, Quest: quest.ID}
	res.Credited = user.Data.CompleteQuest(quest.ID, quest.Data)
	res.Unlocked = user.Data.Unlock(catalog)
	res.XP = user.Data.XP
	res.Level = user.Data.Level()

	if !res.Credited && len(res.Unlocked) == 0 {
		a.logger.Debug("quest already completed", "user", user.ID, "quest", quest.ID)
		return res, nil
	}

	wctx := context.WithValue(ctx, core.ChangeReasonKey, fmt.Sprintf("progress: %s completed %s", user.Key(), quest.Key()))
	if err := user.Save(wctx); err != nil {
		return nil, core.NewDataAccessError("write", user.ID, err)
	}
	a.logger.Info("quest completed", "user", user.ID, "quest", quest.ID, "xp", res.XP, "level", res.Level, "unlocked", res.Unlocked)
	return res, nil
}

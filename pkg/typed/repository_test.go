package typed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/questvault/pkg/adapters/fs"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/model"
	"github.com/aretw0/questvault/pkg/typed"
)

func setupRepo(t *testing.T) core.Repository {
	t.Helper()

	repo := fs.NewRepository(fs.Config{
		Path:    t.TempDir(),
		Gitless: true,
	})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repo
}

func TestTypedRepository(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	quests := typed.NewRepository[model.Quest](repo, model.CollectionQuests)

	first := &typed.DocumentModel[model.Quest]{
		ID:      "first-shift",
		Content: "Shadow a senior nurse for one shift.",
		Data: model.Quest{
			Title:      "First Shift",
			CareerID:   "careers/nurse",
			XPReward:   250,
			SkillHours: 8,
			Skills:     []string{"patient care"},
			Difficulty: model.DifficultyBeginner,
		},
	}
	if err := quests.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first.ID != "quests/first-shift" {
		t.Errorf("expected ID to be scoped to the collection, got %q", first.ID)
	}
	if first.Saver == nil {
		t.Error("expected Save to attach the repository as Saver")
	}

	got, err := quests.Get(ctx, "first-shift")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Data.XPReward != 250 || got.Data.CareerID != "careers/nurse" {
		t.Errorf("unexpected data: %+v", got.Data)
	}
	if got.Content != first.Content {
		t.Errorf("expected content %q, got %q", first.Content, got.Content)
	}
	if got.Key() != "first-shift" {
		t.Errorf("expected key first-shift, got %q", got.Key())
	}

	// Active Record style update.
	got.Data.XPReward = 300
	if err := got.Save(ctx); err != nil {
		t.Fatalf("active record Save failed: %v", err)
	}

	second := &typed.DocumentModel[model.Quest]{ID: "quests/night-shift", Data: model.Quest{Title: "Night Shift"}}
	if err := quests.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	list, err := quests.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 quests, got %d", len(list))
	}
	if list[0].Data.XPReward != 300 {
		t.Errorf("expected updated reward 300, got %d", list[0].Data.XPReward)
	}

	if err := quests.Delete(ctx, "night-shift"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := quests.Get(ctx, "night-shift"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCareerRoundTripKeepsUnknownAttributes(t *testing.T) {
	doc := core.Document{
		ID: "careers/nurse",
		Metadata: core.Metadata{
			"title":       "Nurse",
			"description": "Care for patients",
			"field":       "healthcare_social",
			"salaryBand":  "B",
		},
	}

	career, err := typed.Decode[model.Career](doc)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if career.Data.LegacyField() != "healthcare_social" {
		t.Errorf("expected legacy field, got %q", career.Data.LegacyField())
	}

	career.Data.Fields = []string{career.Data.LegacyField()}
	career.Data.Field = nil

	out, err := typed.Encode(career)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, ok := out.Metadata["field"]; ok {
		t.Error("expected legacy field to be removed")
	}
	if out.Metadata["salaryBand"] != "B" {
		t.Errorf("expected unknown attribute to survive, got %v", out.Metadata["salaryBand"])
	}
	if out.ID != doc.ID {
		t.Errorf("expected ID %q, got %q", doc.ID, out.ID)
	}
}

func TestDecodeRejectsMalformedFields(t *testing.T) {
	doc := core.Document{ID: "careers/bad", Metadata: core.Metadata{"title": "Bad", "fields": 42}}
	if _, err := typed.Decode[model.Career](doc); err == nil {
		t.Error("expected an error for a numeric fields attribute")
	}
}

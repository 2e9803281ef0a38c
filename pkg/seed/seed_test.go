package seed_test

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questvault/pkg/adapters/fs"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/seed"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Registered Nurse", "registered-nurse"},
		{"Técnico de Enfermagem", "tecnico-de-enfermagem"},
		{"  C++ / Go  Developer!! ", "c-go-developer"},
		{"Ünïcödé", "unicode"},
		{"日本語", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, seed.Slugify(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("JSON List", func(t *testing.T) {
		recs, err := seed.Parse([]byte(`[{"title":"Nurse"},{"title":"Chef"}]`), ".json")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "Chef", recs[1]["title"])
	})

	t.Run("JSON Object", func(t *testing.T) {
		recs, err := seed.Parse([]byte(`{"title":"Nurse"}`), ".JSON")
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("YAML List", func(t *testing.T) {
		recs, err := seed.Parse([]byte("- title: Nurse\n  field: healthcare_social\n- title: Chef\n"), ".yaml")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "healthcare_social", recs[0]["field"])
	})

	t.Run("YAML Scalar Rejected", func(t *testing.T) {
		_, err := seed.Parse([]byte("just text"), ".yml")
		assert.Error(t, err)
	})

	t.Run("CSV", func(t *testing.T) {
		data := "id,title,description,xpReward,skills\n" +
			"q1,2024 Intake,Onboarding,250,triage; charting\n" +
			"q2,Night Shift,,1.5,\n"
		recs, err := seed.Parse([]byte(data), ".csv")
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, "2024 Intake", recs[0]["title"], "text columns stay strings")
		assert.Equal(t, int64(250), recs[0]["xpReward"])
		assert.Equal(t, []any{"triage", "charting"}, recs[0]["skills"])
		assert.Equal(t, 1.5, recs[1]["xpReward"])
		assert.NotContains(t, recs[1], "description", "empty cells are dropped")
		assert.NotContains(t, recs[1], "skills")
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := seed.Parse([]byte("x"), ".txt")
		assert.Error(t, err)
	})
}

func setupRepo(t *testing.T) *fs.Repository {
	t.Helper()
	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "vault"), AutoInit: true, Gitless: true})
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestImportFS(t *testing.T) {
	fsys := fstest.MapFS{
		"seeds/a.json":        {Data: []byte(`[{"id":"nurse","title":"Registered Nurse","field":"healthcare_social"},{"title":"Chef","content":"Kitchen notes"}]`)},
		"seeds/nested/b.yaml": {Data: []byte("- title: Chef\n- description: no title here\n")},
		"seeds/c.csv":         {Data: []byte("title,description\nSoftware Engineer,Develop web applications\n")},
		"seeds/readme.md":     {Data: []byte("ignored")},
	}

	repo := setupRepo(t)
	im := seed.NewImporter(repo, seed.Config{
		Collection:  "careers",
		Concurrency: 2,
		NewID:       func() string { return "generated" },
	})

	res, err := im.ImportFS(context.Background(), fsys, "seeds/**/*")
	require.NoError(t, err)

	assert.Equal(t, []string{"seeds/a.json", "seeds/c.csv", "seeds/nested/b.yaml"}, res.Files, "files are processed in sorted order")
	assert.Equal(t, 5, res.Records)
	assert.Equal(t, []string{
		"careers/nurse",
		"careers/chef",
		"careers/software-engineer",
		"careers/chef-2",
		"careers/generated",
	}, res.IDs)

	docs, err := repo.List(context.Background(), "careers")
	require.NoError(t, err)
	assert.Len(t, docs, 5)

	chef, err := repo.Get(context.Background(), "careers/chef")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen notes", chef.Content)
	assert.NotContains(t, chef.Metadata, "content")

	nurse, err := repo.Get(context.Background(), "careers/nurse")
	require.NoError(t, err)
	assert.NotContains(t, nurse.Metadata, "id")
	assert.Equal(t, "healthcare_social", nurse.Metadata["field"])
}

func TestImportFS_Errors(t *testing.T) {
	repo := setupRepo(t)
	im := seed.NewImporter(repo, seed.Config{Collection: "careers"})

	_, err := im.ImportFS(context.Background(), fstest.MapFS{}, "*.json")
	assert.Error(t, err, "no matches")

	broken := fstest.MapFS{"bad.json": {Data: []byte("{nope")}}
	_, err = im.ImportFS(context.Background(), broken, "*.json")
	assert.ErrorContains(t, err, "bad.json")

	docs, err := repo.List(context.Background(), "careers")
	require.NoError(t, err)
	assert.Empty(t, docs, "nothing is written when a file fails to parse")
}

// saveOnly hides Begin so records are written one by one.
type saveOnly struct {
	core.Repository
	saved []string
}

func (s *saveOnly) Save(ctx context.Context, doc core.Document) error {
	s.saved = append(s.saved, doc.ID)
	return s.Repository.Save(ctx, doc)
}

func TestImport_NonTransactional(t *testing.T) {
	repo := &saveOnly{Repository: setupRepo(t)}
	im := seed.NewImporter(repo, seed.Config{Collection: "quests"})

	ids, err := im.Import(context.Background(), []seed.Record{
		{"title": "First Shift", "xpReward": 250},
		{"id": "quests/night", "title": "Night Shift"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"quests/first-shift", "quests/night"}, ids)
	assert.Equal(t, ids, repo.saved)
}

func TestImportFS_ExplicitIDWinsOverDerived(t *testing.T) {
	fsys := fstest.MapFS{
		"careers.json": {Data: []byte(`[
			{"title":"Nurse","description":"derived"},
			{"id":"nurse","title":"Other","description":"explicit"}
		]`)},
	}

	repo := setupRepo(t)
	im := seed.NewImporter(repo, seed.Config{Collection: "careers"})

	res, err := im.ImportFS(context.Background(), fsys, "*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"careers/nurse-2", "careers/nurse"}, res.IDs)

	docs, err := repo.List(context.Background(), "careers")
	require.NoError(t, err)
	require.Len(t, docs, 2, "no record is overwritten")

	nurse, err := repo.Get(context.Background(), "careers/nurse")
	require.NoError(t, err)
	assert.Equal(t, "explicit", nurse.Metadata["description"])
}

func TestImport_DuplicateExplicitID(t *testing.T) {
	repo := setupRepo(t)
	im := seed.NewImporter(repo, seed.Config{Collection: "careers"})

	_, err := im.Import(context.Background(), []seed.Record{
		{"id": "chef", "title": "Chef"},
		{"id": "careers/chef", "title": "Head Chef"},
	})
	assert.ErrorContains(t, err, `duplicate seed id "careers/chef"`)

	docs, err := repo.List(context.Background(), "careers")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

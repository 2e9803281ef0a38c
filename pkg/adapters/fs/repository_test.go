package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questvault/pkg/adapters/fs"
	"github.com/aretw0/questvault/pkg/core"
	"github.com/aretw0/questvault/pkg/git"
)

// setupRepo creates an initialized gitless repository in a temp dir.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")
	cfg := fs.Config{
		Path:     vaultPath,
		AutoInit: true,
		Gitless:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, vaultPath
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0644))
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{
			Path:      filepath.Join(t.TempDir(), "missing"),
			Gitless:   true,
			MustExist: true,
		})
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("Inits Git Repo if AutoInit", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		_, path := setupRepo(t, func(c *fs.Config) { c.Gitless = false })

		_, err := os.Stat(filepath.Join(path, ".git"))
		assert.NoError(t, err, "expected .git directory")

		ignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
		require.NoError(t, err)
		assert.Contains(t, string(ignore), fs.DefaultSystemDir+"/")
	})
}

func TestSaveAndGet(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	doc := core.Document{
		ID:      "careers/registered-nurse",
		Content: "Long form notes.\n",
		Metadata: core.Metadata{
			"title":       "Registered Nurse",
			"description": "Provide patient care in hospital",
		},
	}
	require.NoError(t, repo.Save(ctx, doc))

	raw, err := os.ReadFile(filepath.Join(path, "careers", "registered-nurse.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "---\n"), "markdown is the default format")
	assert.True(t, strings.HasSuffix(string(raw), "---\nLong form notes.\n"))

	got, err := repo.Get(ctx, "careers/registered-nurse")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "Registered Nurse", got.Metadata["title"])
}

func TestSave_KeepsExistingFormat(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	writeFile(t, path, "careers/cashier.json", `{"title":"Cashier","field":"retail_trade"}`)

	doc, err := repo.Get(ctx, "careers/cashier")
	require.NoError(t, err)
	delete(doc.Metadata, "field")
	doc.Metadata["fields"] = []string{"retail_trade"}
	require.NoError(t, repo.Save(ctx, doc))

	_, err = os.Stat(filepath.Join(path, "careers", "cashier.md"))
	assert.True(t, os.IsNotExist(err), "must rewrite the json file, not create a markdown twin")

	raw, err := os.ReadFile(filepath.Join(path, "careers", "cashier.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fields"`)
	assert.NotContains(t, string(raw), `"field":`)
}

func TestGet_Errors(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "careers/missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.Get(ctx, "../outside")
	assert.ErrorIs(t, err, core.ErrInvalidID)

	_, err = repo.Get(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidID)
}

func TestList(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	writeFile(t, path, "careers/b-chef.yaml", "title: Chef\ndescription: Cook food\n")
	writeFile(t, path, "careers/a-nurse.md", "---\ntitle: Nurse\n---\n")
	writeFile(t, path, "careers/notes.txt", "ignored")
	writeFile(t, path, "careers/broken.json", "{not json")
	writeFile(t, path, "quests/first-shift.md", "---\ntitle: First Shift\n---\n")

	docs, err := repo.List(ctx, "careers")
	require.NoError(t, err)
	require.Len(t, docs, 2, "unsupported and unparseable files are skipped")
	assert.Equal(t, "careers/a-nurse", docs[0].ID)
	assert.Equal(t, "careers/b-chef", docs[1].ID)
	assert.Equal(t, "Cook food", docs[1].Metadata["description"])

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, err := repo.List(ctx, "achievements")
	require.NoError(t, err)
	assert.Empty(t, empty, "missing collection lists nothing")

	_, err = os.Stat(filepath.Join(path, fs.DefaultSystemDir, "index.json"))
	assert.NoError(t, err, "List persists the cache")
}

func TestList_CacheSeesRewrites(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	writeFile(t, path, "careers/nurse.md", "---\ntitle: Nurse\n---\n")
	_, err := repo.List(ctx, "careers")
	require.NoError(t, err)

	doc, err := repo.Get(ctx, "careers/nurse")
	require.NoError(t, err)
	doc.Metadata["fields"] = []string{"healthcare_social"}
	require.NoError(t, repo.Save(ctx, doc))

	// A fresh repository reads the persisted cache from disk.
	fresh := fs.NewRepository(fs.Config{Path: path, Gitless: true})
	docs, err := fresh.List(ctx, "careers")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotNil(t, docs[0].Metadata["fields"])
}

func TestDelete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{ID: "careers/x", Metadata: core.Metadata{"title": "X"}}))
	require.NoError(t, repo.Delete(ctx, "careers/x"))

	_, err := os.Stat(filepath.Join(path, "careers", "x.md"))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, repo.Delete(ctx, "careers/x"), core.ErrNotFound)
}

func TestReadOnly(t *testing.T) {
	_, path := setupRepo(t)
	writeFile(t, path, "careers/nurse.md", "---\ntitle: Nurse\n---\n")

	repo := fs.NewRepository(fs.Config{Path: path, Gitless: true, ReadOnly: true})
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	_, err := repo.Get(ctx, "careers/nurse")
	require.NoError(t, err)

	err = repo.Save(ctx, core.Document{ID: "careers/new"})
	assert.True(t, errors.Is(err, core.ErrReadOnly), "got %v", err)
	assert.ErrorIs(t, repo.Delete(ctx, "careers/nurse"), core.ErrReadOnly)
	_, err = repo.Begin(ctx)
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, repo.Sync(ctx), core.ErrReadOnly)

	_, err = os.Stat(filepath.Join(path, "careers", "new.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestSave_Versioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	repo, path := setupRepo(t, func(c *fs.Config) { c.Gitless = false })

	ctx := context.WithValue(context.Background(), core.ChangeReasonKey, "feat: add nurse")
	require.NoError(t, repo.Save(ctx, core.Document{ID: "careers/nurse", Metadata: core.Metadata{"title": "Nurse"}}))

	client := git.NewClient(path, "", nil)
	log, err := client.Run(context.Background(), "log", "--format=%s")
	require.NoError(t, err)
	assert.Contains(t, log, "feat: add nurse")

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status, "cache and lock must be ignored by git")
}

func TestState(t *testing.T) {
	repo, path := setupRepo(t)

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.True(t, state.Gitless)
	assert.Equal(t, ".md", state.DefaultExt)
	assert.Equal(t, []string{".json", ".md", ".yaml", ".yml"}, state.Serializers)
	assert.Equal(t, "fs-repository", repo.ComponentType())
}

package fs_test

import (
	"context"
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

func TestTransaction_CommitAppliesStagedWrites(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{ID: "careers/old", Metadata: core.Metadata{"title": "Old"}}))

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/a", Metadata: core.Metadata{"title": "A"}}))
	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/b", Metadata: core.Metadata{"title": "B"}}))
	require.NoError(t, tx.Delete(ctx, "careers/old"))

	// Nothing touches the disk before Commit.
	_, err = os.Stat(filepath.Join(path, "careers", "a.md"))
	assert.True(t, os.IsNotExist(err))

	staged, err := tx.Get(ctx, "careers/a")
	require.NoError(t, err)
	assert.Equal(t, "A", staged.Metadata["title"])
	_, err = tx.Get(ctx, "careers/old")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, tx.Commit(ctx, "seed careers"))

	docs, err := repo.List(ctx, "careers")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "careers/a", docs[0].ID)
	assert.Equal(t, "careers/b", docs[1].ID)

	assert.ErrorIs(t, tx.Save(ctx, core.Document{ID: "careers/c"}), core.ErrTransactionClosed)
	assert.ErrorIs(t, tx.Commit(ctx, ""), core.ErrTransactionClosed)
}

func TestTransaction_Rollback(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/a"}))
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx), "second rollback is a no-op")

	_, err = os.Stat(filepath.Join(path, "careers"))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, tx.Commit(ctx, ""), core.ErrTransactionClosed)
}

func TestTransaction_InvalidID(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, tx.Save(ctx, core.Document{}), core.ErrInvalidID)

	require.NoError(t, tx.Save(ctx, core.Document{ID: "../escape"}))
	assert.ErrorIs(t, tx.Commit(ctx, ""), core.ErrInvalidID)
}

func TestTransaction_SingleCommit(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	repo, path := setupRepo(t, func(c *fs.Config) { c.Gitless = false })
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	for _, id := range []string{"careers/a", "careers/b", "careers/c"} {
		require.NoError(t, tx.Save(ctx, core.Document{ID: id, Metadata: core.Metadata{"title": id}}))
	}
	require.NoError(t, tx.Commit(ctx, "migrate: group 1"))

	log, err := git.NewClient(path, "", nil).Run(ctx, "log", "--format=%s")
	require.NoError(t, err)
	lines := strings.Split(log, "\n")
	assert.Equal(t, "migrate: group 1", lines[0])
	assert.Len(t, lines, 2, "one commit for the group after the .gitignore commit")
}

func TestTransaction_FailedCommitRestoresFiles(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{ID: "careers/a", Metadata: core.Metadata{"title": "Old A"}}))
	// A directory named like the target file makes the third write fail.
	writeFile(t, path, "careers/b.md/blocker.txt", "x")

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/a", Metadata: core.Metadata{"title": "New A"}}))
	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/c", Metadata: core.Metadata{"title": "C"}}))
	require.NoError(t, tx.Save(ctx, core.Document{ID: "careers/b", Metadata: core.Metadata{"title": "B"}}))

	require.Error(t, tx.Commit(ctx, "partial"))

	a, err := repo.Get(ctx, "careers/a")
	require.NoError(t, err)
	assert.Equal(t, "Old A", a.Metadata["title"])

	_, err = os.Stat(filepath.Join(path, "careers", "c.md"))
	assert.True(t, os.IsNotExist(err), "new file should be removed after a failed commit")

	docs, err := repo.List(ctx, "careers")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Old A", docs[0].Metadata["title"])
}

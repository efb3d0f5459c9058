package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/logger"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(name)
	require.NoError(t, err)
	hash, err := worktree.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

type goGitFixture struct {
	origin       *git.Repository
	originDir    string
	local        *git.Repository
	localDir     string
	synchronizer service.Synchronizer
}

func newGoGitFixture(t *testing.T) goGitFixture {
	originDir := filepath.Join(t.TempDir(), "origin")
	origin, err := git.PlainInit(originDir, false)
	require.NoError(t, err)
	commitFile(t, origin, originDir, "README", "first")

	localDir := filepath.Join(t.TempDir(), "local")
	local, err := git.PlainClone(localDir, false, &git.CloneOptions{URL: originDir})
	require.NoError(t, err)

	base, _ := test.NewNullLogger()
	return goGitFixture{
		origin:       origin,
		originDir:    originDir,
		local:        local,
		localDir:     localDir,
		synchronizer: NewGoGitSynchronizer(logger.FromLogrus(base)),
	}
}

func TestGoGitSynchronizerPullsBranch(t *testing.T) {
	fixture := newGoGitFixture(t)
	expected := commitFile(t, fixture.origin, fixture.originDir, "README", "second")

	err := fixture.synchronizer.Sync(context.Background(), model.Repository{
		Path:   fixture.localDir,
		Branch: "master",
		Kind:   model.RefKindHeads,
		Remote: model.DefaultRemote,
	})
	require.NoError(t, err)

	head, err := fixture.local.Head()
	require.NoError(t, err)
	assert.Equal(t, expected, head.Hash())
	content, err := os.ReadFile(filepath.Join(fixture.localDir, "README"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	err = fixture.synchronizer.Sync(context.Background(), model.Repository{
		Path:   fixture.localDir,
		Branch: "master",
		Kind:   model.RefKindHeads,
		Remote: model.DefaultRemote,
	})
	assert.NoError(t, err)
}

func TestGoGitSynchronizerChecksOutTag(t *testing.T) {
	fixture := newGoGitFixture(t)
	tagged := commitFile(t, fixture.origin, fixture.originDir, "VERSION", "1.0")
	_, err := fixture.origin.CreateTag("v1.0-build3", tagged, nil)
	require.NoError(t, err)
	commitFile(t, fixture.origin, fixture.originDir, "VERSION", "1.1")

	err = fixture.synchronizer.Sync(context.Background(), model.Repository{
		Path:   fixture.localDir,
		Branch: "v1.0-build3",
		Kind:   model.RefKindTags,
		Remote: model.DefaultRemote,
	})
	require.NoError(t, err)

	head, err := fixture.local.Head()
	require.NoError(t, err)
	assert.Equal(t, tagged, head.Hash())
}

func TestGoGitSynchronizerUnknownBranch(t *testing.T) {
	fixture := newGoGitFixture(t)

	err := fixture.synchronizer.Sync(context.Background(), model.Repository{
		Path:   fixture.localDir,
		Branch: "missing",
		Kind:   model.RefKindHeads,
		Remote: model.DefaultRemote,
	})
	assert.Error(t, err)
}

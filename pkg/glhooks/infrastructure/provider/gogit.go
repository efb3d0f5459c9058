package provider

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
)

// NewGoGitSynchronizer updates repositories in-process without the git
// executable.
func NewGoGitSynchronizer(logger applogger.Logger) service.Synchronizer {
	return &goGitSynchronizer{
		logger: logger,
	}
}

type goGitSynchronizer struct {
	logger applogger.Logger
}

func (provider goGitSynchronizer) Sync(ctx context.Context, repository model.Repository) error {
	err := exist(repository)
	if err != nil {
		return err
	}
	if repository.Branch == "" {
		return errors.Errorf("branch for repository %v is empty", repository.Path)
	}
	repo, err := git.PlainOpen(repository.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to open repository %v", repository.Path)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: repository.Remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%v/*", repository.Remote)),
		},
		Tags: git.AllTags,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, "failed to fetch repository %v", repository.Path)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return errors.Wrapf(err, "failed to open worktree of %v", repository.Path)
	}
	if repository.Kind == model.RefKindTags {
		return provider.checkoutTag(repo, worktree, repository)
	}
	return provider.pullBranch(ctx, repo, worktree, repository)
}

func (provider goGitSynchronizer) checkoutTag(repo *git.Repository, worktree *git.Worktree, repository model.Repository) error {
	hash, err := repo.ResolveRevision(plumbing.Revision(plumbing.NewTagReferenceName(repository.Branch)))
	if err != nil {
		return errors.Wrapf(err, "failed to resolve tag %v in %v", repository.Branch, repository.Path)
	}
	err = worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
	return errors.Wrapf(err, "failed to checkout repository %v on tag %v", repository.Path, repository.Branch)
}

func (provider goGitSynchronizer) pullBranch(
	ctx context.Context,
	repo *git.Repository,
	worktree *git.Worktree,
	repository model.Repository,
) error {
	branch := plumbing.NewBranchReferenceName(repository.Branch)
	checkoutOptions := &git.CheckoutOptions{Branch: branch}
	_, err := repo.Reference(branch, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		remoteRef, remoteErr := repo.Reference(plumbing.NewRemoteReferenceName(repository.Remote, repository.Branch), true)
		if remoteErr != nil {
			return errors.Wrapf(remoteErr, "branch %v not found in %v", repository.Branch, repository.Path)
		}
		provider.logger.Debug(fmt.Sprintf("creating local branch %v in %v", repository.Branch, repository.Path))
		checkoutOptions.Hash = remoteRef.Hash()
		checkoutOptions.Create = true
	} else if err != nil {
		return errors.Wrapf(err, "failed to read branch %v in %v", repository.Branch, repository.Path)
	}
	err = worktree.Checkout(checkoutOptions)
	if err != nil {
		return errors.Wrapf(err, "failed to checkout repository %v on branch %v", repository.Path, repository.Branch)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    repository.Remote,
		ReferenceName: branch,
		SingleBranch:  true,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		provider.logger.Debug(fmt.Sprintf("repository %v is already up to date", repository.Path))
		return nil
	}
	return errors.Wrapf(err, "failed to pull repository %v on branch %v", repository.Path, repository.Branch)
}

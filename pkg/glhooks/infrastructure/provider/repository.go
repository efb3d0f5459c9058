package provider

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/command"
)

// NewGitSynchronizer updates repositories with the git executable.
func NewGitSynchronizer(runner command.Runner) service.Synchronizer {
	return &gitSynchronizer{
		runner: runner,
	}
}

type gitSynchronizer struct {
	runner command.Runner
}

func (provider gitSynchronizer) Sync(ctx context.Context, repository model.Repository) error {
	err := exist(repository)
	if err != nil {
		return err
	}
	err = provider.fetch(ctx, repository)
	if err != nil {
		return err
	}
	err = provider.checkout(ctx, repository)
	if err != nil {
		return err
	}
	if repository.Kind == model.RefKindTags {
		return nil
	}
	return provider.pull(ctx, repository)
}

func (provider gitSynchronizer) fetch(ctx context.Context, repository model.Repository) error {
	_, err := provider.runner.Execute(ctx, command.Command{
		WorkDir:    repository.Path,
		Executable: "git",
		Args:       []string{"fetch", repository.Remote, "--tags", "--prune"},
	})
	return errors.Wrapf(err, "failed to fetch repository %v", repository.Path)
}

func (provider gitSynchronizer) checkout(ctx context.Context, repository model.Repository) error {
	if repository.Branch == "" {
		return errors.Errorf("branch for repository %v is empty", repository.Path)
	}
	_, err := provider.runner.Execute(ctx, command.Command{
		WorkDir:    repository.Path,
		Executable: "git",
		Args:       []string{"checkout", repository.Branch},
	})
	return errors.Wrapf(err, "failed to checkout repository %v on %v", repository.Path, repository.Branch)
}

func (provider gitSynchronizer) pull(ctx context.Context, repository model.Repository) error {
	_, err := provider.runner.Execute(ctx, command.Command{
		WorkDir:    repository.Path,
		Executable: "git",
		Args:       []string{"pull", "--ff-only", repository.Remote, repository.Branch},
	})
	return errors.Wrapf(err, "failed to pull repository %v on branch %v", repository.Path, repository.Branch)
}

func exist(repository model.Repository) error {
	info, err := os.Stat(repository.Path)
	if err != nil {
		return errors.Wrapf(err, "repository path %v is not accessible", repository.Path)
	}
	if !info.IsDir() {
		return errors.Errorf("repository path %v is not a directory", repository.Path)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/dependency"
)

func check(ctx context.Context) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	logger := dependencyContainer.Logger()
	repositories := dependencyContainer.Config().Repositories()
	if len(repositories) == 0 {
		logger.Warning(nil, "no repositories configured")
		return nil
	}
	for _, repository := range repositories {
		logger.Info(fmt.Sprintf("%v -> %v (%v %v)", repository.Key, repository.Path, repository.Kind, repository.Branch))
	}
	return nil
}

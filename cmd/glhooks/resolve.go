package main

import (
	"context"
	"fmt"

	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/dependency"
)

func resolve(ctx context.Context, url, ref string) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	repository, path, err := dependencyContainer.Resolver().FindRepository(url, ref)
	if err != nil {
		return err
	}
	logger := dependencyContainer.Logger()
	if repository == nil {
		logger.Info(fmt.Sprintf("%v@%v is not configured", url, path))
		return nil
	}
	logger.Info(fmt.Sprintf("%v@%v -> %v", url, path, repository))
	return nil
}

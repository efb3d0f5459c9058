package main

import (
	"context"

	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/dependency"
)

func serve(ctx context.Context, host string, port int) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	return dependencyContainer.Server(host, port).Run(ctx)
}

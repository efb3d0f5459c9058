package dependency

import (
	"context"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/command"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/config"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/mailer"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/provider"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/transport"
)

type dependencyContainerKey struct{}

type Container interface {
	Logger() applogger.Logger
	Config() *config.Store
	Resolver() service.Resolver
	Dispatcher() service.Dispatcher
	Server(host string, port int) *transport.Server
}

func NewDependencyContainer(
	logger applogger.Logger,
	store *config.Store,
) (Container, error) {
	settings := store.Settings()

	synchronizer, err := newSynchronizer(logger, settings.Server.Sync)
	if err != nil {
		return nil, err
	}
	sender, err := mailer.NewSender(settings.Mailer)
	if err != nil {
		return nil, err
	}
	notificationSettings := service.NotificationSettings{
		AdminEmail: settings.Server.Email,
		ServerHost: settings.Server.Host,
	}
	if settings.Mailer != nil {
		notificationSettings.Sender = settings.Mailer.Sender
	}

	resolver := service.NewResolver(store, logger)
	dispatcher := service.NewDispatcher(
		logger,
		resolver,
		synchronizer,
		service.NewNotificationComposer(notificationSettings),
		sender,
	)

	return &container{
		logger:     logger,
		store:      store,
		resolver:   resolver,
		dispatcher: dispatcher,
	}, nil
}

func newSynchronizer(logger applogger.Logger, driver string) (service.Synchronizer, error) {
	switch driver {
	case config.SyncDriverGit:
		return provider.NewGitSynchronizer(command.NewCommandRunner(logger)), nil
	case config.SyncDriverGoGit:
		return provider.NewGoGitSynchronizer(logger), nil
	default:
		return nil, errors.Errorf("unknown sync driver %q", driver)
	}
}

type container struct {
	logger     applogger.Logger
	store      *config.Store
	resolver   service.Resolver
	dispatcher service.Dispatcher
}

func (c *container) Logger() applogger.Logger {
	return c.logger
}

func (c *container) Config() *config.Store {
	return c.store
}

func (c *container) Resolver() service.Resolver {
	return c.resolver
}

func (c *container) Dispatcher() service.Dispatcher {
	return c.dispatcher
}

func (c *container) Server(host string, port int) *transport.Server {
	return &transport.Server{
		Host: host,
		Port: port,
		Handler: transport.NewRouter(c.logger, &transport.WebhookHandler{
			Dispatcher: c.dispatcher,
			Logger:     c.logger,
		}),
		Logger: c.logger,
	}
}

func ContainerFromContext(ctx context.Context) (Container, error) {
	v := ctx.Value(dependencyContainerKey{})
	if c, ok := v.(Container); ok {
		return c, nil
	}
	return nil, errors.New("dependency container not found")
}

func ContainerToContext(ctx context.Context, c Container) context.Context {
	return context.WithValue(ctx, dependencyContainerKey{}, c)
}

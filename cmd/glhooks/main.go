package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/config"
	"github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/dependency"
	filelogger "github.com/tss-calculator/glhooks/pkg/glhooks/infrastructure/logger"
)

const defaultConfigFile = "glhooks.ini"

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	ctx = listenOSKillSignalsContext(ctx)
	mainLogger := logger.NewTextLogger()

	var closer io.Closer
	defer func() {
		if closer != nil {
			closer.Close()
		}
	}()
	setupContainer := func(logToFile bool) cli.BeforeFunc {
		return func(c *cli.Context) error {
			containerLogger, logCloser, err := newLogger(c, logToFile)
			if err != nil {
				return err
			}
			closer = logCloser
			container, err := dependency.NewDependencyContainer(containerLogger, mustConfig(c))
			if err != nil {
				return err
			}
			c.Context = dependency.ContainerToContext(c.Context, container)
			return nil
		}
	}

	app := &cli.App{
		Name:  "glhooks",
		Usage: "synchronize local repositories on GitLab push events",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   cli.NewStringSlice(defaultConfigFile),
			},
			&cli.BoolFlag{
				Name: "debug",
			},
		},
		Before: func(c *cli.Context) error {
			store, err := loadConfig(c.StringSlice("config"))
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{configMetadataKey: store}
			return nil
		},
		Commands: cli.Commands{
			&cli.Command{
				Name:   "serve",
				Usage:  "start the webhook server",
				Before: setupContainer(true),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name: "host",
					},
					&cli.IntFlag{
						Name: "port",
					},
				},
				Action: func(c *cli.Context) error {
					settings := mustConfig(c).Settings().Server
					host, port := settings.Host, settings.Port
					if c.IsSet("host") {
						host = c.String("host")
					}
					if c.IsSet("port") {
						port = c.Int("port")
					}
					return serve(c.Context, host, port)
				},
			},
			&cli.Command{
				Name:   "check",
				Usage:  "validate configuration and list repositories",
				Before: setupContainer(false),
				Action: func(c *cli.Context) error {
					return check(c.Context)
				},
			},
			&cli.Command{
				Name:   "resolve",
				Usage:  "show which repository a push event would synchronize",
				Before: setupContainer(false),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "ref",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return resolve(c.Context, c.String("url"), c.String("ref"))
				},
			},
		},
	}
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		mainLogger.FatalError(err, "failed execute command "+strings.Join(os.Args, " "))
	}
}

const configMetadataKey = "config"

func loadConfig(paths []string) (*config.Store, error) {
	sources := make([]interface{}, 0, len(paths))
	for _, path := range paths {
		sources = append(sources, path)
	}
	return config.Load(sources...)
}

func mustConfig(c *cli.Context) *config.Store {
	return c.App.Metadata[configMetadataKey].(*config.Store)
}

func newLogger(c *cli.Context, logToFile bool) (applogger.MainLogger, io.Closer, error) {
	level := logrus.InfoLevel
	if c.Bool("debug") {
		level = logrus.DebugLevel
	}
	if !logToFile {
		return filelogger.NewLogger(os.Stderr, level), nil, nil
	}
	return filelogger.NewFileLogger(mustConfig(c).Settings().Server.LogFile, level)
}

func listenOSKillSignalsContext(ctx context.Context) context.Context {
	var cancelFunc context.CancelFunc
	ctx, cancelFunc = context.WithCancel(ctx)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ch:
			cancelFunc()
		case <-ctx.Done():
			return
		}
	}()
	return ctx
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
)

type Synchronizer interface {
	Sync(ctx context.Context, repository model.Repository) error
}

type MailSender interface {
	Send(ctx context.Context, message model.Message) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, body []byte) model.Outcome
}

func NewDispatcher(
	logger applogger.Logger,
	resolver Resolver,
	synchronizer Synchronizer,
	composer NotificationComposer,
	sender MailSender,
) Dispatcher {
	return &dispatcher{
		logger:       logger,
		resolver:     resolver,
		synchronizer: synchronizer,
		composer:     composer,
		sender:       sender,
		locker:       newPathLocker(),
	}
}

type dispatcher struct {
	logger       applogger.Logger
	resolver     Resolver
	synchronizer Synchronizer
	composer     NotificationComposer
	sender       MailSender
	locker       *pathLocker
}

func (d *dispatcher) Dispatch(ctx context.Context, body []byte) model.Outcome {
	var payload model.Payload
	err := json.Unmarshal(body, &payload)
	if err != nil {
		err = errors.Wrapf(model.ErrPayloadMalformed, "failed to decode payload: %v", err)
	} else {
		err = d.handle(ctx, payload)
	}
	if err != nil {
		d.fail(context.WithoutCancel(ctx), body, payload, err)
		return model.OutcomeFailure
	}
	return model.OutcomeSuccess
}

func (d *dispatcher) handle(ctx context.Context, payload model.Payload) error {
	event, err := model.ParsePushEvent(payload)
	if err != nil {
		return err
	}

	repository, path, err := d.findRepository(event)
	if err != nil {
		return err
	}
	if repository == nil {
		d.logger.Info(fmt.Sprintf("No configuration found for repository. [%v@%v]", event.RepositoryURL, path))
		return nil
	}
	return d.sync(ctx, *repository)
}

func (d *dispatcher) findRepository(event model.PushEvent) (repository *model.Repository, path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("unexpected failure while resolving %v: %v", event.RepositoryURL, r)
		}
	}()
	return d.resolver.FindRepository(event.RepositoryURL, event.Ref)
}

func (d *dispatcher) sync(ctx context.Context, repository model.Repository) error {
	unlock, err := d.locker.lock(ctx, repository.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to wait for running sync of %v", repository.Path)
	}
	defer unlock()

	// a started sync runs to completion even if the caller goes away
	d.logger.Info(fmt.Sprintf("sync %v...", repository))
	start := time.Now()
	err = d.synchronizer.Sync(context.WithoutCancel(ctx), repository)
	if err != nil {
		return errors.Wrapf(model.ErrSyncFailed, "%v: %v", repository, err)
	}
	d.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	return nil
}

func (d *dispatcher) fail(ctx context.Context, body []byte, payload model.Payload, failure error) {
	d.logger.WithField("payload", string(body)).Error(failure, "Error during handling of webhook payload")

	message, err := d.composer.Compose(body, payload, failure)
	if err == nil {
		err = d.sender.Send(ctx, message)
	}
	if err != nil {
		d.logger.Error(err, fmt.Sprintf("failed to send notification about: %v", failure))
	}
}

package service

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
)

type ConfigProvider interface {
	Section(key string) (model.Section, error)
}

type Resolver interface {
	// FindRepository returns the repository configured for url and ref, or
	// nil when nothing matches, together with the ref path used for lookup.
	FindRepository(url string, ref string) (*model.Repository, string, error)
}

func NewResolver(config ConfigProvider, logger applogger.Logger) Resolver {
	return &resolver{
		config: config,
		logger: logger,
	}
}

type resolver struct {
	config ConfigProvider
	logger applogger.Logger
}

func (r resolver) FindRepository(url string, ref string) (*model.Repository, string, error) {
	refInfo := strings.Split(ref, "/")
	if len(refInfo) < 3 {
		return nil, "", errors.Wrapf(model.ErrRefUnparseable, "ref %q", ref)
	}
	kind, name := model.RefKind(refInfo[1]), refInfo[2]

	path := name
	if kind == model.RefKindTags && strings.Contains(name, "-") {
		path = model.TagPrefix + strings.Split(name, "-")[0]
	}
	key := fmt.Sprintf("%v@%v", url, path)
	r.logger.Debug(fmt.Sprintf("looking up repository section %q", key))

	section, err := r.config.Section(key)
	if errors.Is(err, model.ErrSectionNotFound) {
		key = url
		section, err = r.config.Section(key)
	}
	if errors.Is(err, model.ErrSectionNotFound) {
		return nil, path, nil
	}
	if err != nil {
		return nil, path, err
	}

	section[model.BranchAttribute] = name
	repository, err := model.NewRepository(key, section)
	if err != nil {
		return nil, path, err
	}
	repository.Kind = model.RefKindHeads
	if kind == model.RefKindTags {
		repository.Kind = model.RefKindTags
	}
	return &repository, path, nil
}

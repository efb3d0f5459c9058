package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type RepositoryKey = string

const (
	DefaultBranch = "master"
	DefaultRemote = "origin"

	TagPrefix = "tags/"

	PathAttribute   = "path"
	BranchAttribute = "branch"
	RemoteAttribute = "remote"
)

type RefKind string

const (
	RefKindHeads RefKind = "heads"
	RefKindTags  RefKind = "tags"
)

// Section is a flat attribute mapping of one configuration section.
type Section map[string]string

func (s Section) Clone() Section {
	clone := make(Section, len(s))
	for key, value := range s {
		clone[key] = value
	}
	return clone
}

// Repository is a deployable repository section. Attributes holds every
// attribute of the section, including path and branch.
type Repository struct {
	Key        RepositoryKey
	URL        string
	Path       string
	Branch     string
	Kind       RefKind
	Remote     string
	Attributes Section
}

func NewRepository(key RepositoryKey, section Section) (Repository, error) {
	path := section[PathAttribute]
	if path == "" {
		return Repository{}, errors.Errorf("repository %v has no %v attribute", key, PathAttribute)
	}
	url, ref, _ := strings.Cut(key, "@")
	kind := RefKindHeads
	if strings.HasPrefix(ref, TagPrefix) {
		kind = RefKindTags
	}
	remote := section[RemoteAttribute]
	if remote == "" {
		remote = DefaultRemote
	}
	return Repository{
		Key:        key,
		URL:        url,
		Path:       path,
		Branch:     section[BranchAttribute],
		Kind:       kind,
		Remote:     remote,
		Attributes: section.Clone(),
	}, nil
}

func (r Repository) String() string {
	return fmt.Sprintf("%v (%v %v)", r.Path, r.Kind, r.Branch)
}

package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
)

const (
	ServerSection = "server"
	MailerSection = "mailer"

	DefaultLogFile = "/var/log/glhooks.access.log"
)

var repositorySectionPattern = regexp.MustCompile(`^https?://`)

// Store is the loaded configuration. It is never modified after Load and
// may be shared between concurrent requests.
type Store struct {
	sections map[string]model.Section
	settings Settings
}

// Load parses the given sources in order. A source is a file path or a
// []byte with INI content; missing files are skipped.
func Load(sources ...interface{}) (*Store, error) {
	if len(sources) == 0 {
		return nil, errors.New("no configuration sources provided")
	}
	file, err := ini.LoadSources(ini.LoadOptions{
		Loose:                      true,
		InsensitiveKeys:            true,
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}, sources[0], sources[1:]...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}

	sections, err := parse(file)
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(file)
	if err != nil {
		return nil, err
	}
	return &Store{
		sections: sections,
		settings: settings,
	}, nil
}

func parse(file *ini.File) (map[string]model.Section, error) {
	defaults := file.Section(ini.DefaultSection).KeysHash()
	data := map[string]model.Section{
		ServerSection: {
			"log_file": DefaultLogFile,
		},
	}
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection {
			continue
		}
		sectionData := make(model.Section, len(defaults))
		for key, value := range defaults {
			sectionData[key] = value
		}
		for key, value := range section.KeysHash() {
			sectionData[key] = value
		}

		if !repositorySectionPattern.MatchString(name) {
			if existing, ok := data[name]; ok {
				for key, value := range sectionData {
					existing[key] = value
				}
				continue
			}
			data[name] = sectionData
			continue
		}

		key, branch, err := normalizeRepositorySection(name)
		if err != nil {
			return nil, err
		}
		sectionData[model.BranchAttribute] = branch
		if _, err = model.NewRepository(key, sectionData); err != nil {
			return nil, errors.Wrapf(err, "invalid repository section [%v]", name)
		}
		data[key] = sectionData
	}
	return data, nil
}

// normalizeRepositorySection returns the composite key of a repository
// section header and its branch attribute. The key keeps the tags/ marker,
// the branch does not.
func normalizeRepositorySection(name string) (model.RepositoryKey, string, error) {
	key := strings.TrimSuffix(name, "/")
	switch strings.Count(key, "@") {
	case 0:
		key = fmt.Sprintf("%v@%v", key, model.DefaultBranch)
	case 1:
	default:
		return "", "", errors.Errorf("repository section [%v] has more than one @", name)
	}
	_, branch, _ := strings.Cut(key, "@")
	if strings.HasPrefix(branch, model.TagPrefix) {
		branch = strings.Split(branch, "/")[1]
	}
	return key, branch, nil
}

// Section returns a copy of the named section.
func (s *Store) Section(key string) (model.Section, error) {
	section, ok := s.sections[key]
	if !ok {
		return nil, errors.Wrapf(model.ErrSectionNotFound, "section %q", key)
	}
	return section.Clone(), nil
}

func (s *Store) Sections() []string {
	keys := make([]string, 0, len(s.sections))
	for key := range s.sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Repositories() []model.Repository {
	repositories := make([]model.Repository, 0, len(s.sections))
	for _, key := range s.Sections() {
		if !repositorySectionPattern.MatchString(key) {
			continue
		}
		repository, err := model.NewRepository(key, s.sections[key])
		if err != nil {
			continue
		}
		repositories = append(repositories, repository)
	}
	return repositories
}

func (s *Store) Settings() Settings {
	return s.settings
}

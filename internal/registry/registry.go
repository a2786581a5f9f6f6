// Package registry holds the static topic and news-source configuration.
package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
)

// TopicConfig describes one tracked topic: multilingual keyword sets, the two
// bias-side labels and the per-topic guidance block used to build the
// classification prompt.
type TopicConfig struct {
	ID          string              `yaml:"id"`
	DisplayName string              `yaml:"display_name"`
	Keywords    map[string][]string `yaml:"keywords"` // keyed by language code

	SideA     string `yaml:"side_a"`
	SideADesc string `yaml:"side_a_desc"`
	SideB     string `yaml:"side_b"`
	SideBDesc string `yaml:"side_b_desc"`

	NeutralDesc string `yaml:"neutral_desc"`
	Guidance    string `yaml:"guidance"`
}

// Categories returns the topic's three valid classification labels.
func (t TopicConfig) Categories() []string {
	return []string{t.SideA, domain.CategoryNeutral, t.SideB}
}

// ValidCategory reports whether category is one of the topic's three labels.
func (t TopicConfig) ValidCategory(category string) bool {
	return category == t.SideA || category == domain.CategoryNeutral || category == t.SideB
}

// AllKeywords returns the union of keywords across all configured languages,
// in deterministic order.
func (t TopicConfig) AllKeywords() []string {
	langs := make([]string, 0, len(t.Keywords))
	for lang := range t.Keywords {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var all []string
	seen := map[string]struct{}{}
	for _, lang := range langs {
		for _, kw := range t.Keywords[lang] {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			all = append(all, kw)
		}
	}
	return all
}

// SourceConfig describes one configured news source.
type SourceConfig struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Language   string   `yaml:"language"`
	Region     string   `yaml:"region"`
	KnownBias  string   `yaml:"known_bias"`
	Feeds      []string `yaml:"rss_feeds"`
	ScrapeURLs []string `yaml:"scrape_urls"`
}

// Registry is the loaded set of topics and sources.
type Registry struct {
	topics  []TopicConfig
	sources []SourceConfig

	topicByID    map[string]TopicConfig
	sourceByName map[string]SourceConfig
}

func build(topics []TopicConfig, sources []SourceConfig) *Registry {
	r := &Registry{
		topics:       topics,
		sources:      sources,
		topicByID:    make(map[string]TopicConfig, len(topics)),
		sourceByName: make(map[string]SourceConfig, len(sources)),
	}
	for _, t := range topics {
		r.topicByID[t.ID] = t
	}
	for _, s := range sources {
		r.sourceByName[s.Name] = s
	}
	return r
}

// New builds a registry from explicit topic and source sets.
func New(topics []TopicConfig, sources []SourceConfig) *Registry {
	return build(topics, sources)
}

// Default returns the built-in Swiss topics and sources.
func Default() *Registry {
	return build(defaultTopics, defaultSources)
}

// fileConfig is the YAML override file structure.
type fileConfig struct {
	Topics  []TopicConfig  `yaml:"topics"`
	Sources []SourceConfig `yaml:"sources"`
}

// LoadFile reads a registry override from a YAML file. The file replaces the
// built-in topics and sources entirely.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg fileConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode registry config: %w", err)
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("registry config %s defines no topics", path)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("registry config %s defines no sources", path)
	}
	return build(cfg.Topics, cfg.Sources), nil
}

// Topic looks up a topic configuration by id.
func (r *Registry) Topic(id string) (TopicConfig, bool) {
	t, ok := r.topicByID[id]
	return t, ok
}

// Topics returns all configured topics.
func (r *Registry) Topics() []TopicConfig {
	return r.topics
}

// Sources returns all configured sources.
func (r *Registry) Sources() []SourceConfig {
	return r.sources
}

// SourceByName looks up a source configuration by display name.
func (r *Registry) SourceByName(name string) (SourceConfig, bool) {
	s, ok := r.sourceByName[name]
	return s, ok
}

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
)

func TestAllKeywords_DeterministicUnion(t *testing.T) {
	topic := TopicConfig{
		Keywords: map[string][]string{
			"fr": {"votation", "référendum"},
			"de": {"abstimmung", "referendum", "abstimmung"},
		},
	}

	first := topic.AllKeywords()
	if len(first) != 4 {
		t.Fatalf("got %d keywords, want 4 deduped: %v", len(first), first)
	}
	// Language blocks in sorted order, German before French.
	if first[0] != "abstimmung" {
		t.Errorf("first keyword = %q, want the German block first", first[0])
	}

	for i := 0; i < 10; i++ {
		again := topic.AllKeywords()
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("ordering unstable at %d: %v vs %v", j, first, again)
			}
		}
	}
}

func TestValidCategory(t *testing.T) {
	topic := TopicConfig{SideA: "pro_eu", SideB: "eu_skeptical"}
	for _, c := range []string{"pro_eu", "eu_skeptical", domain.CategoryNeutral} {
		if !topic.ValidCategory(c) {
			t.Errorf("%q should be valid", c)
		}
	}
	if topic.ValidCategory("left_center") {
		t.Errorf("a different topic's label should be invalid")
	}
}

func TestDefault_BuiltinsAreComplete(t *testing.T) {
	r := Default()
	if len(r.Topics()) != 4 {
		t.Fatalf("got %d built-in topics, want 4", len(r.Topics()))
	}
	if len(r.Sources()) != 9 {
		t.Errorf("got %d built-in sources, want 9", len(r.Sources()))
	}
	for _, topic := range r.Topics() {
		if topic.SideA == "" || topic.SideB == "" {
			t.Errorf("topic %s lacks side labels", topic.ID)
		}
		if topic.Guidance == "" {
			t.Errorf("topic %s lacks guidance", topic.ID)
		}
		if len(topic.AllKeywords()) == 0 {
			t.Errorf("topic %s has no keywords", topic.ID)
		}
	}
	if _, ok := r.Topic("swiss-politics"); !ok {
		t.Errorf("swiss-politics topic missing")
	}
}

func TestLoadFile_ReplacesBuiltins(t *testing.T) {
	content := `
topics:
  - id: custom-topic
    display_name: Custom Topic
    keywords:
      en: ["keyword"]
    side_a: side_one
    side_b: side_two
sources:
  - id: custom
    name: Custom Source
    language: en
    region: national
    rss_feeds:
      - https://example.org/rss
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Topics()) != 1 || len(r.Sources()) != 1 {
		t.Errorf("file registry should replace builtins entirely")
	}
	topic, ok := r.Topic("custom-topic")
	if !ok || topic.SideA != "side_one" {
		t.Errorf("loaded topic wrong: %+v", topic)
	}
	if _, ok := r.SourceByName("Custom Source"); !ok {
		t.Errorf("loaded source not indexed by name")
	}
}

func TestLoadFile_RejectsEmptyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("topics: []\nsources: []\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Errorf("empty config should fail to load")
	}
}

package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:123456789012:articles
      region: us-east-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected http2 and topic enabled, got %#v", enabled)
	}
	if enabled[0].ID != "http2" || enabled[1].ID != "topic" {
		t.Fatalf("unexpected enabled set: %#v", enabled)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: same
    type: http
    http:
      url: https://example.com
  - id: same
    type: http
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate publisher id error")
	}
}

func TestValidatePublisherConfigRejectsMissingBlocks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "h1", Type: TypeHTTP},
		{ID: "q1", Type: TypeSQS},
		{ID: "t1", Type: TypeSNS},
		{ID: "p1", Type: TypePubSub},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %s without its config block", cfg.Type)
		}
	}
}

func TestValidatePublisherConfigAcceptsPubSub(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:     "p1",
		Type:   TypePubSub,
		PubSub: &PubSubConfig{ProjectID: "proj", Topic: "articles"},
	})
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

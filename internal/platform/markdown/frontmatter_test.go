package markdown

import (
	"strings"
	"testing"
)

type noteMeta struct {
	ID      string `yaml:"id"`
	Stand   string `yaml:"stand"`
	Success bool   `yaml:"success"`
}

func TestFrontmatterRoundTripKeepsBody(t *testing.T) {
	t.Parallel()
	rendered, err := RenderFrontmatter(noteMeta{ID: "a1", Stand: "Kanzel Ost", Success: true}, "# Ansitz\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\nid: a1\nstand: Kanzel Ost\n") {
		t.Fatalf("expected ordered header, got %q", rendered)
	}
	var meta noteMeta
	body, err := SplitFrontmatter(rendered, &meta)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta.ID != "a1" || !meta.Success {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if strings.TrimSpace(body) != "# Ansitz" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontmatterRejectsUnterminatedHeader(t *testing.T) {
	t.Parallel()
	var meta noteMeta
	if _, err := SplitFrontmatter("---\nid: x\n", &meta); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}

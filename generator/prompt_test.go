package generator

import (
	"strings"
	"testing"
)

func TestBuildPromptTextMode(t *testing.T) {
	style, _ := LookupStyle("economist")
	p := BuildPrompt(SourceInput{Mode: ModeText, Content: "Chip exports fell 5% last quarter.", Style: style})

	if p.Tier != TierFast {
		t.Errorf("text mode should use the fast tier, got %s", p.Tier)
	}
	if p.Grounded {
		t.Error("text mode must not enable search grounding")
	}
	for _, want := range []string{
		"Here is the raw source text:",
		`"Chip exports fell 5% last quarter."`,
		"Use British spelling",
		"1. The core facts and meaning must remain unchanged.",
		"5. Use Markdown sparingly",
		"Output strictly in JSON format",
	} {
		if !strings.Contains(p.User, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if p.Schema == nil {
		t.Fatal("schema should be attached")
	}
}

func TestBuildPromptURLMode(t *testing.T) {
	style, _ := LookupStyle("wired")
	p := BuildPrompt(SourceInput{Mode: ModeURL, Content: " https://youtu.be/abc ", Style: style})

	if p.Tier != TierPro {
		t.Errorf("url mode should use the pro tier, got %s", p.Tier)
	}
	if !p.Grounded {
		t.Error("url mode must enable search grounding")
	}
	if !strings.Contains(p.User, "link: https://youtu.be/abc\n") {
		t.Errorf("url should be embedded trimmed, got %q", p.User)
	}
	if !strings.Contains(p.User, "use Google Search") {
		t.Error("url prompt should ask for a search")
	}
	if !strings.Contains(p.User, "Wired Magazine") {
		t.Error("style instruction missing")
	}
}

func TestArticleSchemaRequiresAllFields(t *testing.T) {
	s := ArticleSchema()
	req, ok := s["required"].([]string)
	if !ok {
		t.Fatalf("required has unexpected type %T", s["required"])
	}
	if strings.Join(req, ",") != "headline,body,keyTakeaways" {
		t.Errorf("unexpected required fields %v", req)
	}
	props := s["properties"].(map[string]any)
	tk := props["keyTakeaways"].(map[string]any)
	if tk["type"] != "array" {
		t.Errorf("keyTakeaways should be an array, got %v", tk["type"])
	}
}

func TestTierString(t *testing.T) {
	if TierFast.String() != "fast" || TierPro.String() != "pro" {
		t.Errorf("unexpected tier names %s/%s", TierFast, TierPro)
	}
}

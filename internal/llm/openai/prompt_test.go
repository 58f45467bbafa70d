package openai

import (
	"strings"
	"testing"
)

func TestBuildPromptKnownVersion(t *testing.T) {
	messages := BuildPrompt("v2", "resume body", "gpt-4o-mini")
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != systemPromptV2 {
		t.Fatalf("unexpected system message: %+v", messages[0])
	}
	if !strings.Contains(messages[1].Content, "Prompt version: v2") {
		t.Fatalf("developer message missing version: %q", messages[1].Content)
	}
	if !strings.Contains(messages[1].Content, "gpt-4o-mini") {
		t.Fatalf("developer message missing model: %q", messages[1].Content)
	}
	if !strings.Contains(messages[2].Content, "resume body") {
		t.Fatalf("user message missing resume text: %q", messages[2].Content)
	}
}

func TestBuildPromptUnknownVersionFallsBack(t *testing.T) {
	messages := BuildPrompt("v99", "text", "gpt-4o-mini")
	if !strings.Contains(messages[1].Content, "Prompt version: v1") {
		t.Fatalf("expected fallback to v1, got %q", messages[1].Content)
	}
	if messages[0].Content != systemPromptStrict {
		t.Fatalf("expected strict system prompt for v1 fallback")
	}
}

func TestBuildFixPromptWrapsRawOutput(t *testing.T) {
	messages := buildFixPrompt("v1", "gpt-4o-mini", []byte(`{"broken":`))
	if messages[0].Content != systemPromptFixJSON {
		t.Fatalf("unexpected system message: %q", messages[0].Content)
	}
	if !strings.Contains(messages[2].Content, `{"broken":`) {
		t.Fatalf("fix prompt missing raw payload: %q", messages[2].Content)
	}
}

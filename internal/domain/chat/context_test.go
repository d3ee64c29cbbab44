package chat

import (
	"strings"
	"testing"
)

func msg(role Role, content string) *Message {
	return &Message{Role: role, Content: content}
}

func TestBuildContext_Deterministic(t *testing.T) {
	messages := []*Message{
		msg(RoleUser, "What does the contract say about termination?"),
		msg(RoleAssistant, "Section 9 covers termination."),
	}
	texts := []string{"contract body", "appendix body"}

	first := BuildContext(messages, texts)
	second := BuildContext(messages, texts)

	if first != second {
		t.Errorf("identical inputs produced different output:\n%q\n%q", first, second)
	}
}

func TestBuildContext_OrderSensitive(t *testing.T) {
	messages := []*Message{msg(RoleUser, "hello")}

	forward := BuildContext(messages, []string{"alpha", "beta"})
	reversed := BuildContext(messages, []string{"beta", "alpha"})

	if forward == reversed {
		t.Error("permuting distinct texts should change the output")
	}
}

func TestBuildContext_FiltersEmptyTexts(t *testing.T) {
	out := BuildContext(nil, []string{"", "only document", ""})

	if !strings.Contains(out, "--- Document 1 ---\nonly document") {
		t.Errorf("non-empty text missing or misnumbered:\n%s", out)
	}
	if strings.Contains(out, "Document 2") {
		t.Errorf("empty texts should contribute nothing:\n%s", out)
	}
}

func TestBuildContext_RoleLabels(t *testing.T) {
	messages := []*Message{
		msg(RoleUser, "first question"),
		msg(RoleAssistant, "first answer"),
	}

	out := BuildContext(messages, nil)

	if !strings.Contains(out, "User: first question") {
		t.Errorf("user turn not rendered:\n%s", out)
	}
	if !strings.Contains(out, "Fee: first answer") {
		t.Errorf("assistant turn not rendered with persona label:\n%s", out)
	}
	userIdx := strings.Index(out, "User: first question")
	feeIdx := strings.Index(out, "Fee: first answer")
	if userIdx > feeIdx {
		t.Error("turns rendered out of chronological order")
	}
}

func TestBuildContext_DistinctHistories(t *testing.T) {
	a := BuildContext([]*Message{msg(RoleUser, "alpha")}, nil)
	b := BuildContext([]*Message{msg(RoleUser, "beta")}, nil)

	if a == b {
		t.Error("different message histories should produce different context")
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if out := BuildContext(nil, nil); out != "" {
		t.Errorf("empty inputs should produce empty context, got %q", out)
	}
}

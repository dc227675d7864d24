package models

import (
	"errors"
	"testing"
)

func TestLastOfRole(t *testing.T) {
	chat := Chat{Messages: []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "first"},
		{Role: "admin", Content: "admin-msg"},
		{Role: "user", Content: "last"},
	}}

	msg, i, err := chat.LastOfRole("admin")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg.Content != "admin-msg" {
		t.Errorf("expected 'admin-msg', got %q", msg.Content)
	}
	if i != 2 {
		t.Errorf("expected '2', got %v", i)
	}

	msg, i, err = chat.LastOfRole("user")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg.Content != "last" {
		t.Errorf("expected 'last', got %q", msg.Content)
	}
	if i != 3 {
		t.Errorf("expected '3', got %v", i)
	}

	_, _, err = chat.LastOfRole("nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent role")
	}
}

func TestFirstSystemMessage(t *testing.T) {
	chat := Chat{Messages: []Message{
		{Role: "user", Content: "hi"},
		{Role: "system", Content: "rules"},
	}}
	msg, err := chat.FirstSystemMessage()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg.Content != "rules" {
		t.Errorf("expected 'rules', got %q", msg.Content)
	}
	chat.Messages = []Message{{Role: "user", Content: "hi"}}
	if _, err := chat.FirstSystemMessage(); err == nil {
		t.Error("expected error when no system message")
	}
}

func TestFirstUserMessage(t *testing.T) {
	chat := Chat{Messages: []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "ok"},
	}}
	msg, err := chat.FirstUserMessage()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msg.Content != "ok" {
		t.Errorf("expected 'ok', got %q", msg.Content)
	}
	chat.Messages = []Message{{Role: "system", Content: "sys"}}
	if _, err := chat.FirstUserMessage(); err == nil {
		t.Error("expected error when no user message")
	}
}

func TestCallPatch(t *testing.T) {
	t.Run("it should fill type, function name and arguments", func(t *testing.T) {
		c := Call{Name: "baidu_search_tool", Inputs: &Input{"query": "weather"}}
		c.Patch()
		if c.Type != "function" {
			t.Errorf("expected type 'function', got %q", c.Type)
		}
		if c.Function.Name != "baidu_search_tool" {
			t.Errorf("expected function name to be copied, got %q", c.Function.Name)
		}
		if c.Function.Arguments != `{"query":"weather"}` {
			t.Errorf("unexpected arguments: %q", c.Function.Arguments)
		}
	})

	t.Run("it should default arguments to empty object", func(t *testing.T) {
		c := Call{Name: "x"}
		c.Patch()
		if c.Function.Arguments != "{}" {
			t.Errorf("expected '{}', got %q", c.Function.Arguments)
		}
	})
}

func TestCallPrettyPrint(t *testing.T) {
	c := Call{Name: "mail", Inputs: &Input{"to": "a@b.c", "subject": "hi"}}
	want := "Call: 'mail', inputs: [ 'subject': 'hi','to': 'a@b.c' ]"
	if got := c.PrettyPrint(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidate(t *testing.T) {
	spec := Specification{
		Name: "s",
		Inputs: &InputSchema{
			Type:     "object",
			Required: []string{"to", "body", "subject"},
		},
	}
	err := Validate(spec, Input{"to": "x"})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if want := "validation error, fields missing: [body subject]"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if err := Validate(spec, Input{"to": "x", "body": "b", "subject": "s"}); err != nil {
		t.Errorf("unexpected err: %v", err)
	}
}

package ws

import (
	"errors"
	"testing"
)

func TestParseIntent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want intent
	}{
		{"send", `{"message": "hi"}`, intent{kind: intentSend, text: "hi"}},
		{"read", `{"read_message_id": 7}`, intent{kind: intentRead, messageID: 7}},
		{"search", `{"search": "hello"}`, intent{kind: intentSearch, query: "hello"}},
		{"edit", `{"edit_message_id": 3, "new_content": "fixed"}`, intent{kind: intentEdit, messageID: 3, newContent: "fixed"}},
		{"delete", `{"delete_message_id": 9}`, intent{kind: intentDelete, messageID: 9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseIntent([]byte(tc.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseIntentMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `garbage`},
		{"unknown keys", `{"unknown": 1}`},
		{"empty", `{}`},
		{"edit without content", `{"edit_message_id": 3}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseIntent([]byte(tc.raw)); !errors.Is(err, errMalformedFrame) {
				t.Fatalf("expected errMalformedFrame, got %v", err)
			}
		})
	}
}

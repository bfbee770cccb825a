package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{"unique only", "\ftask", "task", ""},
		{"unique and payload", "\ftask|join_channel", "task", "join_channel"},
		{"payload keeps extra separators", "\fquiz_answer|abc-123|2", "quiz_answer", "abc-123|2"},
		{"no marker prefix", "task|x", "task", "x"},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			if unique != tc.unique || payload != tc.payload {
				t.Fatalf("ParseCallbackData(%q) = (%q, %q), want (%q, %q)",
					tc.data, unique, payload, tc.unique, tc.payload)
			}
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	if u, p := ParseCallbackData(nil); u != "" || p != "" {
		t.Fatalf("nil callback = (%q, %q), want empty", u, p)
	}
}

package service

import "testing"

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"prose around", `El ranking es: {"candidates":[{"id":"x"}]} listo.`, `{"candidates":[{"id":"x"}]}`},
		{"braces inside strings", `{"reason":"usa {llaves} raras"}`, `{"reason":"usa {llaves} raras"}`},
		{"escaped quotes", `{"reason":"dijo \"hola\""}`, `{"reason":"dijo \"hola\""}`},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"unbalanced", `{"a":1`, ""},
		{"no object", "sin json", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractFirstJSONObject(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCleanLLMJSONResponse(t *testing.T) {
	fenced := "```json\n{\"a\":1}\n```"
	if got := cleanLLMJSONResponse(fenced); got != `{"a":1}` {
		t.Fatalf("expected fences stripped, got %q", got)
	}
	bom := "\uFEFF{\"a\":1}"
	if got := cleanLLMJSONResponse(bom); got != `{"a":1}` {
		t.Fatalf("expected BOM stripped, got %q", got)
	}
	if got := cleanLLMJSONResponse("   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

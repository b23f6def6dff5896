package usecase

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		original  string
		wantTerms []string
		wantReply *string
	}{
		{
			name:      "bare JSON array",
			raw:       `["milk","bread"]`,
			original:  "breakfast",
			wantTerms: []string{"milk", "bread"},
		},
		{
			name:      "fenced JSON object",
			raw:       "```json\n{\"assistant_reply\":\"hi\",\"search_terms\":[\"eggs\"]}\n```",
			original:  "eggs please",
			wantTerms: []string{"eggs"},
			wantReply: strPtr("hi"),
		},
		{
			name:      "fence without language tag",
			raw:       "```\n[\"carne\", \"carbon\", \"chorizo\"]\n```",
			original:  "quiero hacer un asado",
			wantTerms: []string{"carne", "carbon", "chorizo"},
		},
		{
			name:      "not JSON at all",
			raw:       "not json at all",
			original:  "eggs please",
			wantTerms: []string{"eggs please"},
		},
		{
			name:      "array embedded in prose",
			raw:       `Claro, aquí tienes: ["yerba", "mate"]. ¡Que lo disfrutes!`,
			original:  "quiero tomar mate",
			wantTerms: []string{"yerba", "mate"},
		},
		{
			name:      "object embedded in prose",
			raw:       `Here you go: {"assistant_reply": "Good choice", "search_terms": ["pasta"]} hope it helps`,
			original:  "pasta night",
			wantTerms: []string{"pasta"},
			wantReply: strPtr("Good choice"),
		},
		{
			name:      "object comes before a later bracket",
			raw:       `{"search_terms": ["arroz"]} [1]`,
			original:  "arroz",
			wantTerms: []string{"arroz"},
			wantReply: strPtr(""),
		},
		{
			name:      "object without search terms keeps reply",
			raw:       `{"assistant_reply": "¿Qué necesitás?"}`,
			original:  "hola",
			wantTerms: []string{"hola"},
			wantReply: strPtr("¿Qué necesitás?"),
		},
		{
			name:      "object with empty search terms",
			raw:       `{"assistant_reply": "ok", "search_terms": []}`,
			original:  "algo",
			wantTerms: []string{"algo"},
			wantReply: strPtr("ok"),
		},
		{
			name:      "object without reply defaults to empty string",
			raw:       `{"search_terms": ["queso"]}`,
			original:  "queso",
			wantTerms: []string{"queso"},
			wantReply: strPtr(""),
		},
		{
			name:      "empty array falls back to message",
			raw:       `[]`,
			original:  "leche",
			wantTerms: []string{"leche"},
		},
		{
			name:      "terms are trimmed and blanks dropped",
			raw:       `["  vino tinto ", "", "   ", "queso"]`,
			original:  "picada",
			wantTerms: []string{"vino tinto", "queso"},
		},
		{
			name:      "non-string elements are ignored",
			raw:       `["pan", 3, null, {"x": 1}, "manteca"]`,
			original:  "desayuno",
			wantTerms: []string{"pan", "manteca"},
		},
		{
			name:      "duplicates are kept",
			raw:       `["leche", "leche"]`,
			original:  "leche",
			wantTerms: []string{"leche", "leche"},
		},
		{
			name:      "JSON scalar is a failure",
			raw:       `"leche"`,
			original:  "quiero leche",
			wantTerms: []string{"quiero leche"},
		},
		{
			name:      "number is a failure",
			raw:       `42`,
			original:  "cuarenta y dos",
			wantTerms: []string{"cuarenta y dos"},
		},
		{
			name:      "empty output",
			raw:       "",
			original:  "fideos",
			wantTerms: []string{"fideos"},
		},
		{
			name:      "truncated JSON",
			raw:       `["harina", "azu`,
			original:  "torta",
			wantTerms: []string{"torta"},
		},
		{
			name:      "wrong type for search terms",
			raw:       `{"search_terms": "galletitas"}`,
			original:  "galletitas",
			wantTerms: []string{"galletitas"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExtraction(tt.raw, tt.original)

			if !reflect.DeepEqual(got.SearchTerms, tt.wantTerms) {
				t.Errorf("SearchTerms = %q, want %q", got.SearchTerms, tt.wantTerms)
			}

			switch {
			case tt.wantReply == nil && got.AssistantReply != nil:
				t.Errorf("AssistantReply = %q, want nil", *got.AssistantReply)
			case tt.wantReply != nil && got.AssistantReply == nil:
				t.Errorf("AssistantReply = nil, want %q", *tt.wantReply)
			case tt.wantReply != nil && *got.AssistantReply != *tt.wantReply:
				t.Errorf("AssistantReply = %q, want %q", *got.AssistantReply, *tt.wantReply)
			}
		})
	}
}

func TestParseExtraction_NeverEmpty(t *testing.T) {
	inputs := []string{
		"", "null", "true", "{}", "[]", "[[]]", "{", "]", "}{", "][", "```", "```json```",
		`{"search_terms": [null]}`, `[" "]`, "prose with } and { reversed",
	}

	for _, raw := range inputs {
		got := ParseExtraction(raw, "mensaje")
		if len(got.SearchTerms) == 0 {
			t.Errorf("ParseExtraction(%q) returned no search terms", raw)
		}
	}
}

func TestParseExtraction_Deterministic(t *testing.T) {
	raw := "texto ```json\n{\"assistant_reply\":\"dale\",\"search_terms\":[\"a\",\"b\"]}\n``` más texto"

	first := ParseExtraction(raw, "msg")
	second := ParseExtraction(raw, "msg")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ParseExtraction is not deterministic: %+v vs %+v", first, second)
	}
}

package usecase

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/chatcart/backend/internal/domain"
)

// Matches opening and closing code fences, with or without a language tag
var codeFencePattern = regexp.MustCompile("```[a-zA-Z]*")

// extractionPayload is the object shape the system prompt asks the model for
type extractionPayload struct {
	AssistantReply *string          `json:"assistant_reply"`
	SearchTerms    []json.RawMessage `json:"search_terms"`
}

// ParseExtraction reduces raw LLM output to search terms and an optional reply.
// It never fails: output that cannot be decoded yields the original message
// as the only search term.
//
// Attempts, first success wins:
//  1. the whole text with code fences removed
//  2. the span between the first opening bracket and its last closing counterpart
//  3. fallback to the original message
func ParseExtraction(raw, originalMessage string) domain.ExtractionResult {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))

	if result, ok := decodeExtraction(cleaned, originalMessage); ok {
		return result
	}

	for _, span := range embeddedJSONSpans(cleaned) {
		if result, ok := decodeExtraction(span, originalMessage); ok {
			return result
		}
	}

	return fallbackExtraction(originalMessage)
}

// embeddedJSONSpans returns candidate JSON substrings, the one whose opening
// bracket appears first in the text comes first
func embeddedJSONSpans(text string) []string {
	type span struct {
		start int
		text  string
	}

	var spans []span
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start < 0 || end <= start {
			continue
		}
		spans = append(spans, span{start: start, text: text[start : end+1]})
	}

	if len(spans) == 2 && spans[1].start < spans[0].start {
		spans[0], spans[1] = spans[1], spans[0]
	}

	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.text)
	}
	return out
}

// decodeExtraction decodes a JSON array or object. Scalars and invalid JSON
// report false.
func decodeExtraction(text, originalMessage string) (domain.ExtractionResult, bool) {
	if text == "" {
		return domain.ExtractionResult{}, false
	}

	switch text[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return domain.ExtractionResult{}, false
		}
		return domain.ExtractionResult{
			SearchTerms: termsOrFallback(cleanTerms(items), originalMessage),
		}, true

	case '{':
		var payload extractionPayload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return domain.ExtractionResult{}, false
		}
		reply := ""
		if payload.AssistantReply != nil {
			reply = *payload.AssistantReply
		}
		return domain.ExtractionResult{
			SearchTerms:    termsOrFallback(cleanTerms(payload.SearchTerms), originalMessage),
			AssistantReply: &reply,
		}, true
	}

	return domain.ExtractionResult{}, false
}

// cleanTerms keeps string elements, trimmed, dropping blanks
func cleanTerms(items []json.RawMessage) []string {
	terms := make([]string, 0, len(items))
	for _, item := range items {
		var term string
		if err := json.Unmarshal(item, &term); err != nil {
			continue
		}
		term = strings.TrimSpace(term)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func termsOrFallback(terms []string, originalMessage string) []string {
	if len(terms) == 0 {
		return []string{strings.TrimSpace(originalMessage)}
	}
	return terms
}

func fallbackExtraction(originalMessage string) domain.ExtractionResult {
	return domain.ExtractionResult{
		SearchTerms: []string{strings.TrimSpace(originalMessage)},
	}
}

package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"worklinkph/internal/database"
)

const likeEscape = "!"

// containsPattern builds a lower-cased LIKE pattern for a substring match.
// Use it with "LOWER(col) LIKE ? ESCAPE '!'".
func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

func isUnique(err error) bool {
	return errors.Is(err, database.ErrUniqueViolation)
}

func encodeJSON(raw json.RawMessage, empty string) string {
	if len(raw) == 0 || !json.Valid(raw) {
		return empty
	}
	return string(raw)
}

// decodeObject returns the stored JSON when it is a valid object, "{}" otherwise.
func decodeObject(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !json.Valid([]byte(s)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(s)
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "[]"
	}
	return strings.TrimSpace(buf.String())
}

func decodeTags(s string) []string {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

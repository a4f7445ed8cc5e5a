package mqtt

import (
	"fmt"
	"strings"
)

func TopicSessionVibe(prefix, sessionID string) string {
	return fmt.Sprintf("%s/sessions/%s/vibe", strings.TrimSuffix(prefix, "/"), sessionID)
}

// TopicAllVibes is the wildcard companion displays subscribe to.
func TopicAllVibes(prefix string) string {
	return fmt.Sprintf("%s/sessions/+/vibe", strings.TrimSuffix(prefix, "/"))
}

// ParseSessionID extracts the session id from {prefix}/sessions/{id}/vibe.
func ParseSessionID(topic, prefix string) (string, error) {
	parts := strings.Split(topic, "/")
	prefixParts := strings.Split(strings.TrimSuffix(prefix, "/"), "/")
	if len(parts) != len(prefixParts)+3 {
		return "", fmt.Errorf("invalid topic: %s", topic)
	}
	for i, p := range prefixParts {
		if parts[i] != p {
			return "", fmt.Errorf("topic prefix mismatch: %s", topic)
		}
	}
	if parts[len(prefixParts)] != "sessions" || parts[len(parts)-1] != "vibe" {
		return "", fmt.Errorf("invalid topic pattern: %s", topic)
	}
	id := parts[len(prefixParts)+1]
	if id == "" || id == "+" {
		return "", fmt.Errorf("invalid session id in topic: %s", topic)
	}
	return id, nil
}

package roadmap

import (
	"encoding/json"
	"fmt"
)

// compositeKey derives the cache key for the allocation and content
// namespaces from the topic and a stage input. The input is serialized with
// encoding/json, which sorts map keys, so keys are stable regardless of the
// insertion order of the structures they are derived from.
func compositeKey(topic string, v any) (string, error) {
	canonical, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize cache key input: %w", err)
	}
	return fmt.Sprintf("%s:%s", topic, canonical), nil
}

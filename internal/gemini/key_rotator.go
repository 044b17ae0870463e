package gemini

import (
	"sync"
)

// KeyRotator hands out the configured API keys round-robin in a thread-safe
// manner.
type KeyRotator struct {
	keys  []string
	index int
	mutex sync.Mutex
}

// NewKeyRotator creates a new KeyRotator. Blank and duplicate keys are dropped.
func NewKeyRotator(keys []string) *KeyRotator {
	seen := make(map[string]bool, len(keys))
	kr := &KeyRotator{}
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kr.keys = append(kr.keys, k)
	}
	return kr
}

// Len returns the number of usable keys.
func (kr *KeyRotator) Len() int {
	return len(kr.keys)
}

// Next returns the next API key, or "" when none is configured.
func (kr *KeyRotator) Next() string {
	kr.mutex.Lock()
	defer kr.mutex.Unlock()

	if len(kr.keys) == 0 {
		return ""
	}

	key := kr.keys[kr.index]
	kr.index = (kr.index + 1) % len(kr.keys)
	return key
}

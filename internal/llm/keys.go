package llm

import (
	"errors"
	"strings"
	"sync/atomic"
)

var ErrNoAPIKey = errors.New("no API key configured")

// KeyPool hands out API keys round-robin so load spreads over several
// quota buckets.
type KeyPool struct {
	keys []string
	next atomic.Uint64
}

// NewKeyPool parses a comma-separated key list, dropping blanks and
// duplicates while keeping order.
func NewKeyPool(raw string) *KeyPool {
	seen := make(map[string]struct{})
	keys := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		k := strings.TrimSpace(part)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return &KeyPool{keys: keys}
}

func (p *KeyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

func (p *KeyPool) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

func (p *KeyPool) Next() (string, error) {
	if p.Len() == 0 {
		return "", ErrNoAPIKey
	}
	n := p.next.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))], nil
}

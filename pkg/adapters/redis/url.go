package redis

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// queryOptions reads the sink options carried in the URL query.
func queryOptions(raw string) ([]Option, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	q := u.Query()

	var opts []Option
	if v := q.Get("ttl"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ttl %q: %w", v, err)
		}
		opts = append(opts, WithTTL(ttl))
	}
	if v := q.Get("prefix"); v != "" {
		opts = append(opts, WithPrefix(v))
	}
	if v := q.Get("lock"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid lock ttl %q: %w", v, err)
		}
		opts = append(opts, WithLocking(ttl))
	}
	return opts, nil
}

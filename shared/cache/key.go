package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const keySeparator = ":"

// BuildCacheKey joins prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...any) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)

	for _, part := range parts {
		segments = append(segments, fmt.Sprint(part))
	}

	return strings.Join(segments, keySeparator)
}

// BuildCacheKeyWithQuery appends the query in canonical (sorted) form so equivalent URLs share a key.
func BuildCacheKeyWithQuery(prefix string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	canonical := url.Values{}
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		canonical[key] = values
	}

	return BuildCacheKey(prefix, canonical.Encode())
}

// Pattern returns the SCAN pattern matching every key under prefix.
func Pattern(prefix string) string {
	return prefix + keySeparator + "*"
}

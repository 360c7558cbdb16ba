package util

import (
	"strings"

	"github.com/samber/lo"
)

// SliceToMap turns ["a=1", "b"] into {"a": "1", "b": ""}.
func SliceToMap(slice []string) map[string]string {
	return lo.SliceToMap(slice, func(s string) (string, string) {
		name, value, _ := strings.Cut(s, "=")
		return strings.TrimSpace(name), value
	})
}

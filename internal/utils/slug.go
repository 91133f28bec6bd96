package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// DeriveParameterKey turns a parameter display name into its stable key.
// Names that slugify to nothing (all-symbol input) get a numbered fallback;
// taken holds every key already present in the batch so fallbacks never
// collide with each other or with real keys.
func DeriveParameterKey(name string, taken map[string]struct{}) string {
	key := slug.Make(name)
	if key == "" {
		for n := 1; ; n++ {
			key = fmt.Sprintf("param_%d", n)
			if _, exists := taken[key]; !exists {
				break
			}
		}
	}
	return key
}

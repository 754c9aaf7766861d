package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// UniqueSlug derives a URL-safe slug from a human name and disambiguates
// collisions with a numeric suffix: "Green Hills" -> green-hills,
// green-hills-1, green-hills-2, ...  The exists callback reports whether a
// candidate is already taken; its error aborts the search.
func UniqueSlug(name string, exists func(string) (bool, error)) (string, error) {
	base := slug.Make(name)
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

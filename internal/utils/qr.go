package utils

import (
	"fmt"
	"strings"
)

// BuildAnimalQRURL renders the public scan URL encoded into an animal's QR
// code.  The base URL comes from configuration; the public id keeps internal
// ids out of printed material.
func BuildAnimalQRURL(baseURL, publicID string) string {
	return fmt.Sprintf("%s/a/%s", strings.TrimRight(baseURL, "/"), publicID)
}

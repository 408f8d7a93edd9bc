// Package envfile parses the env-file text format (KEY=VALUE lines)
// into a flat secret mapping. Parsing delegates to godotenv, which
// handles comments, blank lines, quoting, and identifier rules.
//
// Local files are never re-serialized from the mapping: opsync writes
// the literal fetched or edited text, so round-trips are exact.
package envfile

import (
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFileName is the env file written when a vault item carries no
// file_name field.
const DefaultFileName = ".env"

// Parse decodes env-file text into a key/value mapping.
func Parse(text string) (map[string]string, error) {
	return godotenv.Parse(strings.NewReader(text))
}

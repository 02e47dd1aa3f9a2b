package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Fingerprint hashes a document's decoded frontmatter and body. Key order,
// quoting style and an existing fingerprint field do not affect the result,
// so a save that only rewrites formatting keeps the same value.
func Fingerprint(content []byte) (string, error) {
	fields, body, err := Parse(content)
	if err != nil {
		return "", err
	}
	delete(fields, mdfp.FingerprintField)

	canonical := ""
	if len(fields) > 0 {
		serialized, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		canonical = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(canonical, string(body)), nil
}

package frontmatter

import (
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_MatchesCanonicalParts(t *testing.T) {
	fp, err := Fingerprint([]byte("---\ntitle: Setup\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, mdfp.CalculateFingerprintFromParts("title: Setup", "# Title\n"), fp)
}

func TestFingerprint_NoFrontmatter(t *testing.T) {
	fp, err := Fingerprint([]byte("# Title\n"))
	require.NoError(t, err)
	require.Equal(t, mdfp.CalculateFingerprintFromParts("", "# Title\n"), fp)
}

func TestFingerprint_IgnoresFormattingAndStoredFingerprint(t *testing.T) {
	a, err := Fingerprint([]byte("---\ntitle: Setup\ntags: go\n---\nbody\n"))
	require.NoError(t, err)
	b, err := Fingerprint([]byte("---\ntags: \"go\"\nfingerprint: abc\ntitle: 'Setup'\n---\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFingerprint_ChangesWithBody(t *testing.T) {
	a, err := Fingerprint([]byte("---\ntitle: Setup\n---\nbody\n"))
	require.NoError(t, err)
	b, err := Fingerprint([]byte("---\ntitle: Setup\n---\nbody two\n"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFingerprint_InvalidFrontmatter(t *testing.T) {
	_, err := Fingerprint([]byte("---\ntitle: [unterminated\n---\nbody\n"))
	require.Error(t, err)
}

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings checks the short and full renderings.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, Version, Short())

	full := Full()
	require.Contains(t, full, Version)
	require.Contains(t, full, Commit)
	require.Contains(t, full, BuildTime)
}

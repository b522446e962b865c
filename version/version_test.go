package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	assert.Equal(t, "fiducials dev", GetFullVersion())

	old := [3]string{Version, GitCommit, BuildDate}
	t.Cleanup(func() { Version, GitCommit, BuildDate = old[0], old[1], old[2] })

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-10-18"
	assert.Equal(t, "1.2.0", GetVersion())
	assert.Equal(t, "fiducials 1.2.0 (commit abc123, built 2026-10-18)", GetFullVersion())
}

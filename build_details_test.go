package stripegen

import (
	"regexp"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// release sets the ldflags variables the way the release build of
// stripegen does, restoring the development defaults afterwards.
func release(t *testing.T, v, c, bt string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := version, commit, buildTime
	version, commit, buildTime = v, c, bt
	t.Cleanup(func() {
		version, commit, buildTime = oldVersion, oldCommit, oldBuildTime
	})
}

func TestDevelopmentBuild(t *testing.T) {
	release(t, "dev", "unknown", "unknown")
	assert.Equal(t, "dev", Version())
	assert.Equal(t, "unknown", Commit())
	assert.Equal(t, "unknown", BuildTime())
	assert.Equal(t, runtime.Version(), GoVersion())
}

func TestReleaseBuild(t *testing.T) {
	release(t, "v0.4.0", "3f9c2ab", "2026-10-01T12:00:00Z")
	assert.Equal(t, "v0.4.0", Version())
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{7,}$`), Commit())
	assert.Equal(t, "2026-10-01T12:00:00Z", BuildTime())
}

func TestBuildInfo(t *testing.T) {
	release(t, "v0.4.0", "3f9c2ab", "2026-10-01T12:00:00Z")
	want := "Version: v0.4.0\n" +
		"Commit: 3f9c2ab\n" +
		"Build Time: 2026-10-01T12:00:00Z\n" +
		"Go Version: " + runtime.Version() + "\n"
	assert.Equal(t, want, BuildInfo())
}

package staleness

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
}

func commitAll(t *testing.T, dir, msg string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("add", "-A")
	run("commit", "-q", "-m", msg)
}

func TestDetectDelta_RealRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	initRepo(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one"), 0o644))
	commitAll(t, dir, "initial")
	base := CurrentHash(dir)
	require.NotEqual(t, NoGitSentinel, base)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("two"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0o644))
	commitAll(t, dir, "second")

	delta, err := DetectDelta(dir, base)
	require.NoError(t, err)
	require.Contains(t, delta.Modified, "a.txt")
	require.Contains(t, delta.Added, "b.txt")
	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, delta.Affected())
}

func TestCurrentHash_NonGitDir(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, NoGitSentinel, CurrentHash(dir))
}

func TestApplyNameStatus_ParsesRenamesAndDeletes(t *testing.T) {
	delta := &Delta{Renamed: map[string]string{}}
	applyNameStatus(delta, []byte("A\tnew.js\nD\told.js\nR100\tfoo.js\tbar.js\n"))

	require.Equal(t, []string{"new.js"}, delta.Added)
	require.Equal(t, []string{"old.js"}, delta.Deleted)
	require.Equal(t, "bar.js", delta.Renamed["foo.js"])
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPassphrase = "Counsel0r-on-duty!"

// execute runs the CLI with args against dir and returns its output.
func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--datadir", dir, "-p", testPassphrase}, args...))
	require.NoError(t, run(root), out.String())
	return out.String()
}

// field returns the value after "name: " in out.
func field(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return v
		}
	}
	t.Fatalf("no %q in output:\n%s", name, out)
	return ""
}

func TestCLI_IntroduceAndAccept(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "init")
	require.Contains(t, out, "Identity created.")
	_, err := os.Stat(filepath.Join(dir, "confidant.toml"))
	require.NoError(t, err)

	out = execute(t, dir, "bundle", "--split")
	var bundles []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.HasPrefix(line, "signing-key:") {
			bundles = append(bundles, line)
		}
	}
	require.NotEmpty(t, bundles)

	out = execute(t, dir, "introduce", bundles[0], "-m", "I need someone to talk to")
	intro := field(t, out, "introduction")
	msg := field(t, out, "message")

	out = execute(t, dir, "accept", intro, msg, "--reply", "I'm here")
	require.Contains(t, out, "guest[0]: I need someone to talk to")
	require.NotEmpty(t, field(t, out, "reply"))

	// The one-time key is gone; the same introduction is refused.
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--datadir", dir, "-p", testPassphrase, "accept", intro})
	require.Error(t, run(root))
}

func TestCLI_Handshake(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "init")
	out := execute(t, dir, "handshake")
	require.Contains(t, out, "Handshake OK")
}

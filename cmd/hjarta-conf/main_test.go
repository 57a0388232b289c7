package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xalexb/hjarta-conf/codec"
)

func TestRun_Version(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "hjarta-conf dev")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := run([]string{"--help"}, &stdout, &stderr)
	require.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, stderr.String(), "--admin-addr")
}

func TestRun_RequiresFile(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	require.ErrorIs(t, run([]string{"--check"}, &stdout, &stderr), errNoFile)
	require.Error(t, run([]string{"--check", "extra"}, &stdout, &stderr))
}

func TestRun_Check(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
		args    []string
		wantErr error
		wantOut string
	}{
		{
			name:    "yaml",
			file:    "settings.yaml",
			content: "a: 1\nb: [x, y]\n",
			wantOut: "ok (2 top-level keys)",
		},
		{
			name:    "jsonc with comments",
			file:    "settings.jsonc",
			content: "{\n  // port\n  \"port\": 1,\n}\n",
			wantOut: "ok (1 top-level keys)",
		},
		{
			name:    "toml section",
			file:    "settings.toml",
			content: "[server]\nport = 1\nhost = \"a\"\n",
			args:    []string{"--section", "server"},
			wantOut: "ok (2 top-level keys)",
		},
		{
			name:    "malformed",
			file:    "settings.yaml",
			content: "a: [\n",
			wantErr: codec.ErrMalformedToken,
		},
		{
			name:    "missing section",
			file:    "settings.yaml",
			content: "a: 1\n",
			args:    []string{"--section", "server"},
			wantErr: codec.ErrMissingField,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			var stdout, stderr bytes.Buffer

			err := run(append([]string{"--file", path, "--check"}, tc.args...), &stdout, &stderr)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Contains(t, stdout.String(), tc.wantOut)
		})
	}
}

func TestRun_CheckProvisionsDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	defaults := filepath.Join(dir, "defaults.yaml")
	require.NoError(t, os.WriteFile(defaults, []byte("motd: hello\n"), 0o600))

	path := filepath.Join(dir, "config", "settings.yaml")

	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--file", path, "--default", defaults, "--check", "--log-format", "text"}, &stdout, &stderr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "motd: hello\n", string(data))
	assert.Contains(t, stderr.String(), "default document provisioned")
}

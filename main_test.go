package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wader/pecosutil/internal/wkhtml"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	a := newApp(strings.NewReader(stdin), stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoundArgs(t *testing.T) {
	stdout, _, err := run(t, "", "round", "-f", "60", "2020-01-01 00:00:10", "2020-01-01 00:00:50")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:00\n2020-01-01 00:01:00\n", stdout)
}

func TestRoundStdin(t *testing.T) {
	stdout, _, err := run(t, "2020-01-01 00:00:10\n\n2020-01-01 00:00:50\n", "round", "--how", "floor")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:00\n2020-01-01 00:00:00\n", stdout)
}

func TestRoundTimeZone(t *testing.T) {
	stdout, _, err := run(t, "", "round", "--tz", "Asia/Kolkata", "-f", "3600", "--how", "ceiling", "2020-01-01 00:00:10")
	require.NoError(t, err)
	// +05:30 zone, hour grid is in UTC
	assert.Equal(t, "2020-01-01 00:30:00\n", stdout)
}

func TestRoundUnknownHow(t *testing.T) {
	stdout, stderr, err := run(t, "", "round", "--how", "bogus", "2020-01-01 00:00:10")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:10\n", stdout)
	assert.Contains(t, stderr, "index not rounded")

	_, _, err = run(t, "", "round", "--how", "bogus", "--strict", "2020-01-01 00:00:10")
	assert.Error(t, err)
}

func TestRoundHowCase(t *testing.T) {
	stdout, stderr, err := run(t, "", "round", "--how", " Floor ", "--strict", "2020-01-01 00:00:50")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:00\n", stdout)
	assert.NotContains(t, stderr, "index not rounded")
}

func TestRoundIgnoresRendererConfig(t *testing.T) {
	t.Setenv("PECOSUTIL_RENDERER_QUALITY", "200")
	stdout, _, err := run(t, "", "round", "2020-01-01 00:00:10")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:00\n", stdout)

	_, _, err = run(t, "", "convert", "a.html", "a.jpg")
	assert.ErrorContains(t, err, "renderer.quality")
}

func TestRoundInvalidFrequency(t *testing.T) {
	_, _, err := run(t, "", "round", "-f", "0", "2020-01-01 00:00:10")
	assert.Error(t, err)
}

func TestRoundConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("round:\n  frequency: 3600\n  how: floor\n"), 0o644))

	stdout, _, err := run(t, "", "--config", p, "round", "2020-01-01 10:59:59")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 10:00:00\n", stdout)

	// flag wins over config file
	stdout, _, err = run(t, "", "--config", p, "round", "--how", "ceiling", "2020-01-01 10:00:01")
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 11:00:00\n", stdout)
}

func stubRenderer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub renderer needs /bin/sh")
	}
	p := filepath.Join(t.TempDir(), "wkhtmltoimage")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return p
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "a.html")
	imagePath := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0o644))

	// last argument is output path
	renderer := stubRenderer(t, `for a; do out=$a; done; printf '%s\n' "$@" > "$out"`)
	_, _, err := run(t, "",
		"convert", "--renderer", renderer,
		"--format", "png", "--quality", "90", "--zoom", "2",
		"-o", "width=1024", "-o", "disable-javascript",
		"--verify",
		htmlPath, imagePath,
	)
	require.NoError(t, err)

	b, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"--format", "png", "--quality", "90", "--zoom", "2",
		"--disable-javascript", "--width", "1024",
		htmlPath, imagePath,
	}, "\n")+"\n", string(b))
}

func TestConvertFails(t *testing.T) {
	renderer := stubRenderer(t, `echo "Error: Failed loading page" >&2; exit 2`)
	_, stderr, err := run(t, "", "convert", "--renderer", renderer, "a.html", "a.jpg")
	assert.ErrorIs(t, err, wkhtml.ErrRendererFailed)
	assert.Contains(t, stderr, "Failed loading page")

	_, _, err = run(t, "", "convert", "--renderer", renderer, "--ignore-errors", "a.html", "a.jpg")
	assert.NoError(t, err)
}

func TestConvertStdin(t *testing.T) {
	renderer := stubRenderer(t, "cat")
	stdout, _, err := run(t, "<html><body>piped</body></html>", "convert", "--renderer", renderer, "-", "-")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>piped</body></html>", stdout)
}

func TestConvertArgs(t *testing.T) {
	_, _, err := run(t, "", "convert", "a.html")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	renderer := stubRenderer(t, `echo "wkhtmltoimage 0.12.6 (with patched qt)"`)
	t.Setenv("PECOSUTIL_RENDERER_PATH", renderer)
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "wkhtmltoimage 0.12.6 (with patched qt)\n", stdout)
}

// chdir is a stand-in for testing.T.Chdir (Go 1.24+)
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

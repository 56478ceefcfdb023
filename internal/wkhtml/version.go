package wkhtml

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// VersionParts of a renderer version string
type VersionParts struct {
	Full  string `json:"full"`
	Major uint   `json:"major"`
	Minor uint   `json:"minor"`
	Patch uint   `json:"patch"`
	// PatchedQt is true for builds with the patched qt, needed for some options
	PatchedQt bool `json:"patched_qt"`
}

func (v VersionParts) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// wkhtmltoimage 0.12.6 (with patched qt)
var versionLineRe = regexp.MustCompile(`(?:^|\s)(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion parses --version output
func ParseVersion(s string) (VersionParts, error) {
	line := strings.TrimSpace(s)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	sm := versionLineRe.FindStringSubmatch(line)
	if sm == nil {
		return VersionParts{}, fmt.Errorf("no version found in %q", line)
	}

	major, _ := strconv.Atoi(sm[1])
	minor, _ := strconv.Atoi(sm[2])
	patch := 0
	if sm[3] != "" {
		patch, _ = strconv.Atoi(sm[3])
	}

	return VersionParts{
		Full:      strings.TrimSpace(s),
		Major:     uint(major),
		Minor:     uint(minor),
		Patch:     uint(patch),
		PatchedQt: strings.Contains(line, "patched qt"),
	}, nil
}

// Version runs renderer with --version, path defaults to ImagePath and
// executor to ExecExecutor
func Version(ctx context.Context, path string, executor Executor) (VersionParts, error) {
	if path == "" {
		path = ImagePath
	}
	if executor == nil {
		executor = ExecExecutor{}
	}

	p, err := executor.LookPath(path)
	if err != nil {
		return VersionParts{}, fmt.Errorf("%w: %s: %s", ErrRendererNotFound, path, err)
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	if err := executor.Run(ctx, p, []string{"--version"}, nil, stdout, stderr); err != nil {
		return VersionParts{}, &ExecError{
			Path:     p,
			Args:     []string{"--version"},
			ExitCode: exitCode(err),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return ParseVersion(stdout.String())
}

package linebuffer_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/wader/pecosutil/internal/wkhtml/internal/linebuffer"
)

func TestLastLines(t *testing.T) {
	testCases := []struct {
		writes   string
		expected string
	}{
		{writes: "", expected: ""},
		{writes: "a\n,b\n", expected: "a\nb\n"},
		{writes: "a\r", expected: "a\r"},
		{writes: "a", expected: "a"},
		{writes: "a,b\n,c", expected: "ab\nc"},
		{writes: "a\n,b\n,c\n,d\n", expected: "b\nc\nd\n"},
		{writes: "a\n,b\n,c\n,1\n,2\n,3\n", expected: "1\n2\n3\n"},
		{writes: "a\nb\nc\nd\ne", expected: "c\nd\ne"},
	}
	for i, tC := range testCases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			lb := linebuffer.NewLastLines(3)
			for _, w := range strings.Split(tC.writes, ",") {
				lb.Write([]byte(w))
			}
			lb.Close()

			if tC.expected != lb.String() {
				t.Errorf("expected %q, got %q", tC.expected, lb.String())
			}
		})
	}
}

func TestFn(t *testing.T) {
	var lines []string
	fn := linebuffer.NewFn(func(line string) { lines = append(lines, line) })
	fn.Write([]byte("Loading page (1/2)\r"))
	fn.Write([]byte("Rendering (2/2)\nDo"))
	fn.Write([]byte("ne\n"))
	fn.Close()

	expected := []string{"Loading page (1/2)\r", "Rendering (2/2)\n", "Done\n"}
	if strings.Join(expected, "|") != strings.Join(lines, "|") {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

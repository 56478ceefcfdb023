package kvargs_test

import (
	"reflect"
	"testing"

	"github.com/wader/pecosutil/internal/wkhtml/internal/kvargs"
)

func TestMapToSortedArgs(t *testing.T) {
	actual := kvargs.MapToSortedArgs(map[string]string{
		"width":              "800",
		"disable-javascript": "",
		"--crop-h":           "300",
	}, kvargs.LongOptionArg)
	expected := []string{"--crop-h", "300", "--disable-javascript", "--width", "800"}
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %q, got %q", expected, actual)
	}
}

func TestParsePairs(t *testing.T) {
	actual := kvargs.ParsePairs([]string{"width=800", "--quiet", "", "title=a=b"})
	expected := map[string]string{"width": "800", "quiet": "", "title": "a=b"}
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

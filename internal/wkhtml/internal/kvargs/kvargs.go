// Package kvargs has functions of transforming maps into command line args
package kvargs

import (
	"sort"
	"strings"
)

// MapToSortedArgs {b: "2", a: "1"} -> [argFn("a", "1")..., argFn("b", "2")...]
func MapToSortedArgs(m map[string]string, argFn func(k, v string) []string) []string {
	sortedKeys := make([]string, 0, len(m))
	for k := range m {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
	s := make([]string, 0, len(m)*2)
	for _, k := range sortedKeys {
		s = append(s, argFn(k, m[k])...)
	}
	return s
}

// LongOptionArg builds GNU style long options
// {"width": "800", "disable-javascript": ""} -> ["--disable-javascript", "--width", "800"]
func LongOptionArg(opt, value string) []string {
	opt = "--" + strings.TrimLeft(opt, "-")
	if value == "" {
		return []string{opt}
	}
	return []string{opt, value}
}

// ParsePairs parses ["k=v", "k2"] into {"k": "v", "k2": ""}
func ParsePairs(ss []string) map[string]string {
	m := map[string]string{}
	for _, s := range ss {
		k, v, _ := strings.Cut(s, "=")
		k = strings.TrimLeft(strings.TrimSpace(k), "-")
		if k == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// Package linebuffer has writers that split output into lines
package linebuffer

import (
	"bytes"
	"strings"
	"sync"
)

// Fn calls function for each line written, line includes the terminating
// \n or \r
type Fn struct {
	mu  sync.Mutex
	buf bytes.Buffer
	fn  func(line string)
}

// NewFn create new buffer that calls function foreach line written
func NewFn(fn func(line string)) *Fn {
	return &Fn{fn: fn}
}

func (f *Fn) Write(p []byte) (n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf.Write(p)
	for {
		b := f.buf.Bytes()
		i := bytes.IndexAny(b, "\n\r")
		if i < 0 {
			break
		}
		f.fn(string(f.buf.Next(i + 1)))
	}

	return len(p), nil
}

// Close flushes any data left in the buffer as a line
func (f *Fn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.buf.Len() > 0 {
		f.fn(f.buf.String())
	}
	f.buf.Reset()
	return nil
}

// LastLines keeps the last n lines written
type LastLines struct {
	*Fn
	next  int
	count int
	lines []string
}

// NewLastLines creates a new line buffer that keeps the last limit lines
func NewLastLines(limit int) *LastLines {
	if limit < 1 {
		limit = 1
	}
	ll := &LastLines{lines: make([]string, limit)}
	ll.Fn = NewFn(ll.addLine)
	return ll
}

func (ll *LastLines) addLine(line string) {
	ll.lines[ll.next] = line
	ll.next = (ll.next + 1) % len(ll.lines)
	if ll.count < len(ll.lines) {
		ll.count++
	}
}

// Lines returns kept lines oldest first
func (ll *LastLines) Lines() []string {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	ls := make([]string, 0, ll.count)
	start := ll.next - ll.count
	if start < 0 {
		start += len(ll.lines)
	}
	for i := 0; i < ll.count; i++ {
		ls = append(ls, ll.lines[(start+i)%len(ll.lines)])
	}
	return ls
}

// String returns kept lines as a string
func (ll *LastLines) String() string {
	return strings.Join(ll.Lines(), "")
}

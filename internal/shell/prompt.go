package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"sweetshop-admin/internal/notify"
)

// Terminal renders the notification center on a terminal: banners go to
// out, confirmations are answered with y/N from in.
type Terminal struct {
	center    *notify.Center
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool

	mu        sync.Mutex
	last      *notify.Notification
	answering bool
}

// NewTerminal subscribes a Terminal to center. With assumeYes every
// confirmation is approved without reading input.
func NewTerminal(center *notify.Center, in io.Reader, out io.Writer, assumeYes bool) *Terminal {
	t := &Terminal{
		center:    center,
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
	center.Subscribe(t.onChange)
	return t
}

func (t *Terminal) onChange(s notify.State) {
	t.mu.Lock()
	show := s.Notification != nil && (t.last == nil || *t.last != *s.Notification)
	t.last = s.Notification
	ask := s.Confirmation != nil && !t.answering
	if ask {
		t.answering = true
	}
	t.mu.Unlock()

	if show {
		fmt.Fprintf(t.out, "%s %s\n", marker(s.Notification.Severity), s.Notification.Message)
	}
	if !ask {
		return
	}

	ok := t.confirm(*s.Confirmation)
	t.center.Resolve(ok)

	t.mu.Lock()
	t.answering = false
	t.mu.Unlock()
}

func (t *Terminal) confirm(prompt string) bool {
	fmt.Fprintf(t.out, "Confirm Action: %s [y/N]: ", prompt)
	if t.assumeYes {
		fmt.Fprintln(t.out, "y")
		return true
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func marker(s notify.Severity) string {
	switch s {
	case notify.Success:
		return "[ok]"
	case notify.Error:
		return "[error]"
	default:
		return "[info]"
	}
}

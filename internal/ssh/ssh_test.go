package ssh

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		name    string
		term    string
		allowed bool
	}{
		{"xterm-256color", "xterm-256color", true},
		{"tmux", "tmux", true},
		{"linux", "linux", true},
		{"vt100", "vt100", true},
		{"screen", "screen", true},
		{"rxvt-unicode-256color", "rxvt-unicode-256color", true},
		{"unknown term", "evil-term", false},
		{"path traversal", "../../../etc/passwd", false},
		{"empty string", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := allowedTerms[tc.term]; got != tc.allowed {
				t.Errorf("allowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
			}
		})
	}
}

func TestSessionTerm(t *testing.T) {
	cases := []struct {
		env  []string
		want string
	}{
		{[]string{"LANG=C", "TERM=tmux"}, "tmux"},
		{[]string{"TERM=../../etc/passwd"}, DefaultTerm},
		{nil, DefaultTerm},
	}
	for _, c := range cases {
		if got := SessionTerm(c.env); got != c.want {
			t.Errorf("SessionTerm(%v) = %q; want %q", c.env, got, c.want)
		}
	}
}

func TestWindowSizeFallback(t *testing.T) {
	tty := NewSessionTty(nil, gossh.Pty{}, nil)
	ws, err := tty.WindowSize()
	if err != nil {
		t.Fatalf("WindowSize: %v", err)
	}
	if ws != (tcell.WindowSize{Width: defaultWidth, Height: defaultHeight}) {
		t.Fatalf("size = %+v; want fallback", ws)
	}
}

func TestNotifyResize(t *testing.T) {
	winCh := make(chan gossh.Window)
	tty := NewSessionTty(nil, gossh.Pty{Window: gossh.Window{Width: 100, Height: 40}}, winCh)
	called := make(chan struct{}, 1)
	tty.NotifyResize(func() { called <- struct{}{} })

	winCh <- gossh.Window{Width: 120, Height: 50}
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("resize callback not invoked")
	}
	ws, _ := tty.WindowSize()
	if ws.Width != 120 || ws.Height != 50 {
		t.Fatalf("size = %+v; want 120x50", ws)
	}
	close(winCh)
}

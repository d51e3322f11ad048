package process

import (
	"strings"
	"testing"
)

func TestBuildCommandPlain(t *testing.T) {
	s := Spec{Command: "sleep 100"}
	cmd := s.BuildCommand()
	if !strings.HasSuffix(cmd.Path, "sleep") && cmd.Args[0] != "sleep" {
		t.Fatalf("expected direct sleep invocation, got %v", cmd.Args)
	}
	if len(cmd.Args) != 2 || cmd.Args[1] != "100" {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
}

func TestBuildCommandMetacharacters(t *testing.T) {
	s := Spec{Command: "echo hi > /tmp/x"}
	cmd := s.BuildCommand()
	if cmd.Path != "/bin/sh" {
		t.Fatalf("expected shell wrapping, got %s", cmd.Path)
	}
	if cmd.Args[1] != "-c" || cmd.Args[2] != "echo hi > /tmp/x" {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
}

func TestBuildCommandExplicitShell(t *testing.T) {
	s := Spec{Command: `sh -c 'echo hi > /tmp/x'`}
	cmd := s.BuildCommand()
	if cmd.Path != "/bin/sh" {
		t.Fatalf("expected shell, got %s", cmd.Path)
	}
	// Outer quotes stripped so redirection works.
	if cmd.Args[2] != "echo hi > /tmp/x" {
		t.Fatalf("quotes not stripped: %q", cmd.Args[2])
	}
}

func TestBuildCommandEmpty(t *testing.T) {
	s := Spec{Command: "   "}
	cmd := s.BuildCommand()
	if cmd.Path != "/bin/true" {
		t.Fatalf("expected /bin/true fallback, got %s", cmd.Path)
	}
}

func TestParseExplicitShellVariants(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`sh -c 'sleep 5'`, "sleep 5", true},
		{`/bin/sh -c "sleep 5"`, "sleep 5", true},
		{`/usr/bin/sh -c sleep`, "sleep", true},
		{`bash -c 'sleep 5'`, "", false},
		{`sleep 5`, "", false},
	}
	for _, c := range cases {
		got, ok := parseExplicitShell(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("%q: got (%q,%v) want (%q,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

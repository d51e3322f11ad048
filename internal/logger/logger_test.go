package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChildFiles(t *testing.T) {
	dir := t.TempDir()
	c := Config{Dir: dir}
	out, errF, err := c.ChildFiles("web-1")
	if err != nil {
		t.Fatalf("child files: %v", err)
	}
	if out == nil || errF == nil {
		t.Fatal("expected both files when Dir is set")
	}
	if _, err := out.WriteString("hello\n"); err != nil {
		t.Fatalf("write stdout: %v", err)
	}
	_ = out.Close()
	_ = errF.Close()
	if !fileExists(filepath.Join(dir, "web-1.stdout.log")) {
		t.Fatal("stdout log file missing")
	}
	if !fileExists(filepath.Join(dir, "web-1.stderr.log")) {
		t.Fatal("stderr log file missing")
	}
}

func TestChildFilesAppend(t *testing.T) {
	dir := t.TempDir()
	c := Config{Dir: dir}
	for i := 0; i < 2; i++ {
		out, errF, err := c.ChildFiles("svc")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := out.WriteString("line\n"); err != nil {
			t.Fatal(err)
		}
		_ = out.Close()
		_ = errF.Close()
	}
	data, err := os.ReadFile(filepath.Join(dir, "svc.stdout.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line\nline\n" {
		t.Fatalf("expected appended output, got %q", data)
	}
}

func TestChildFilesNoDir(t *testing.T) {
	var c Config
	out, errF, err := c.ChildFiles("svc")
	if err != nil {
		t.Fatal(err)
	}
	if out != nil || errF != nil {
		t.Fatal("no Dir configured, files must be nil")
	}
}

func TestValOr(t *testing.T) {
	if valOr(0, 10) != 10 || valOr(-1, 10) != 10 || valOr(3, 10) != 3 {
		t.Fatal("valOr defaults wrong")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package gobanlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestServer(t *testing.T, o *serverOptions) *Server {
	t.Helper()
	checker, err := o.buildChecker()
	if err != nil {
		t.Fatalf("buildChecker error: %v", err)
	}
	return &Server{
		serverOptions: o,
		holder:        NewHolder(checker),
	}
}

func TestReloadOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banlist.txt")
	if err := os.WriteFile(path, []byte("gdz.ru\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := newServerOptions()
	o.BanlistPaths = []string{path}
	s := newTestServer(t, o)

	if !s.Checker().IsForbidden(NewDomain("gdz.ru")) {
		t.Fatal("initial checker must contain the file entry")
	}
	if s.Checker().IsForbidden(NewDomain("maps.me")) {
		t.Fatal("maps.me is not on the banlist yet")
	}

	if err := os.WriteFile(path, []byte("gdz.ru\nmaps.me\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.reloadOnce(); err != nil {
		t.Fatalf("reloadOnce error: %v", err)
	}
	if !s.Checker().IsForbidden(NewDomain("m.maps.me")) {
		t.Error("reload must pick up new entries")
	}
}

func TestReloadOnceKeepsCheckerOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banlist.txt")
	if err := os.WriteFile(path, []byte("gdz.ru\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := newServerOptions()
	o.BanlistPaths = []string{path}
	s := newTestServer(t, o)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := s.reloadOnce(); err == nil {
		t.Fatal("expected reloadOnce to fail for a missing file")
	}
	if !s.Checker().IsForbidden(NewDomain("gdz.ru")) {
		t.Error("a failed reload must keep the previous checker")
	}
}

func TestCalcBackoff(t *testing.T) {
	initial := 5 * time.Second
	max := 5 * time.Minute

	for failures := 1; failures < 20; failures++ {
		b := calcBackoff(initial, max, failures)
		// 20% jitter either way around the capped exponential value.
		if b < 0 || b > max+max/5 {
			t.Errorf("backoff(%d) = %s, out of range", failures, b)
		}
	}
	if b := calcBackoff(initial, max, 1); b > initial+initial/5 {
		t.Errorf("first backoff = %s, want around %s", b, initial)
	}
}

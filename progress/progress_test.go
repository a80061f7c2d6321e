package progress_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/progress"
)

func TestReporterInvokesInstalledDelegate(t *testing.T) {
	var gotPath string
	var gotFraction float64

	r := progress.NewReporter()
	r.Set(func(path string, fraction float64) {
		gotPath = path
		gotFraction = fraction
	})
	r.Report("a/b.txt", 0.5)

	if gotPath != "a/b.txt" || gotFraction != 0.5 {
		t.Fatalf("got %q %v", gotPath, gotFraction)
	}
}

func TestReporterClearStopsReporting(t *testing.T) {
	called := false
	r := progress.NewReporter()
	r.Set(func(string, float64) { called = true })
	r.Clear()
	r.Report("x", 1.0)
	if called {
		t.Fatalf("expected no call after Clear")
	}
}

func TestCancellerAbortIsIdempotent(t *testing.T) {
	c := progress.NewCanceller()
	if c.Cancelled() {
		t.Fatalf("expected not cancelled initially")
	}
	c.Abort()
	c.Abort()
	if !c.Cancelled() {
		t.Fatalf("expected cancelled after Abort")
	}
}

func TestPasswordSourcePrefersPreset(t *testing.T) {
	s := progress.NewPasswordSource()
	s.SetProvider(func() (string, bool) { return "from-provider", true })
	s.SetPreset("from-preset")

	pw, err := s.Resolve()
	if err != nil || pw != "from-preset" {
		t.Fatalf("got %q, %v", pw, err)
	}
}

func TestPasswordSourceFallsBackToProvider(t *testing.T) {
	s := progress.NewPasswordSource()
	s.SetProvider(func() (string, bool) { return "from-provider", true })

	pw, err := s.Resolve()
	if err != nil || pw != "from-provider" {
		t.Fatalf("got %q, %v", pw, err)
	}
}

func TestPasswordSourceFailsWithoutPresetOrProvider(t *testing.T) {
	s := progress.NewPasswordSource()
	if _, err := s.Resolve(); err != progress.ErrNoPassword {
		t.Fatalf("got %v, want ErrNoPassword", err)
	}
}

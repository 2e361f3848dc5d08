package config

import "testing"

func TestSetParamOverridesYAML(t *testing.T) {
	c := New()
	if err := c.LoadYAML([]byte("boid.count: 50\nsteps: 20\n")); err != nil {
		t.Fatalf("unexpected LoadYAML error: %v", err)
	}
	if got := c.GetInt("boid.count", 0); got != 50 {
		t.Errorf("expected boid.count 50, got %d", got)
	}

	if err := c.SetParam("boid.count=200"); err != nil {
		t.Fatalf("unexpected SetParam error: %v", err)
	}
	if got := c.GetInt("boid.count", 0); got != 200 {
		t.Errorf("expected -P override to win, got %d", got)
	}
	if got := c.GetInt("steps", 0); got != 20 {
		t.Errorf("expected steps from YAML to survive, got %d", got)
	}
}

func TestSetParamMalformed(t *testing.T) {
	c := New()
	if err := c.SetParam("no-equals-sign"); err == nil {
		t.Fatalf("expected an error for a malformed -P value")
	}
}

func TestGetBoolAcceptsYesNo(t *testing.T) {
	c := New()
	_ = c.SetParam("gpu.rng=yes")
	if !c.GetBool("gpu.rng", false) {
		t.Errorf("expected \"yes\" to parse as true")
	}
	_ = c.SetParam("gpu.reallocate=NO")
	if c.GetBool("gpu.reallocate", true) {
		t.Errorf("expected \"NO\" to parse as false")
	}
}

func TestGetDefaults(t *testing.T) {
	c := New()
	if got := c.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("expected fallback string, got %q", got)
	}
	if got := c.GetInt("missing", 7); got != 7 {
		t.Errorf("expected fallback int, got %d", got)
	}
	if got := c.GetFloat("missing", 1.5); got != 1.5 {
		t.Errorf("expected fallback float, got %v", got)
	}
	if got := c.GetBool("missing", true); got != true {
		t.Errorf("expected fallback bool, got %v", got)
	}
}

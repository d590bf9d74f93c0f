package testkit

import "testing"

var seam = func() string { return "real" }

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seam, func() string { return "fake" })
		if got := seam(); got != "fake" {
			t.Fatalf("seam() = %q, want fake", got)
		}
	})
	if got := seam(); got != "real" {
		t.Fatalf("seam not restored, got %q", got)
	}
}

func TestHelpers(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustContain(t, "night morning afternoon", "morning")
	MustNear(t, 0.3333, 1.0/3.0, 1e-3)
}

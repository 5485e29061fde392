package window

import (
	"errors"
	"testing"

	"walkforward-lab/internal/domain"
)

func TestGenerate_AnchoredLayout(t *testing.T) {
	windows, err := Generate(300, 200, 60, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("expected exactly 2 windows, got %d", len(windows))
	}

	for i, w := range windows {
		if w.TrainStart != 0 {
			t.Errorf("window %d: train start %d, want 0 (anchored)", i, w.TrainStart)
		}
		if w.TestStart != w.TrainEnd+1 {
			t.Errorf("window %d: test start %d, want train end + 1 (%d)", i, w.TestStart, w.TrainEnd+1)
		}
		if w.TestLen() != 60 {
			t.Errorf("window %d: test length %d, want 60", i, w.TestLen())
		}
	}

	if windows[0].TrainEnd != 199 || windows[1].TrainEnd != 229 {
		t.Errorf("train ends: got (%d, %d), want (199, 229)",
			windows[0].TrainEnd, windows[1].TrainEnd)
	}
}

func TestGenerate_NoTruncatedFinalWindow(t *testing.T) {
	windows, err := Generate(300, 200, 60, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i, w := range windows {
		if w.TestEnd >= 300 {
			t.Errorf("window %d extends past history: test end %d", i, w.TestEnd)
		}
	}
}

func TestGenerate_StepAdvance(t *testing.T) {
	windows, err := Generate(1000, 250, 60, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(windows) == 0 {
		t.Fatal("expected windows")
	}

	for i := 1; i < len(windows); i++ {
		if windows[i].TestStart != windows[i-1].TestStart+30 {
			t.Errorf("window %d: test start did not advance by step", i)
		}
		if windows[i].TrainEnd >= windows[i].TestStart {
			t.Errorf("window %d: inverted train/test bounds", i)
		}
	}
}

func TestGenerate_InfeasibleSizing(t *testing.T) {
	_, err := Generate(100, 200, 60, 30)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}

	_, err = Generate(300, 200, 0, 30)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for zero test length, got %v", err)
	}
}

func TestGenerate_ExactFit(t *testing.T) {
	// train+test == total bars still yields one window
	windows, err := Generate(260, 200, 60, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].TestEnd != 259 {
		t.Errorf("test end: got %d, want 259", windows[0].TestEnd)
	}
}

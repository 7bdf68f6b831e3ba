package snr

import "testing"

func TestNewDefaults(t *testing.T) {
	tr := New()
	if tr.SNRLinear() <= 0 {
		t.Errorf("SNRLinear() = %v, want positive", tr.SNRLinear())
	}
	if tr.Precision() <= 0 {
		t.Errorf("Precision() = %v, want positive", tr.Precision())
	}
}

func TestUpdateRaisesSNRForLowError(t *testing.T) {
	tr := New()
	before := tr.SNRLinear()
	tr.Update([]float64{1, 1, 1}, []float64{0.001, 0.001, 0.001})
	if tr.SNRLinear() <= before {
		t.Errorf("SNRLinear() = %v, want increase over %v after low-error update", tr.SNRLinear(), before)
	}
}

func TestUpdateIgnoresZeroErrorEnergy(t *testing.T) {
	tr := New()
	before := tr.SNRLinear()
	tr.Update([]float64{1}, []float64{0})
	if tr.SNRLinear() != before {
		t.Errorf("zero error energy sample should fall back to previous snr, got %v want %v", tr.SNRLinear(), before)
	}
}

func TestPrimeOnlyAppliesOnce(t *testing.T) {
	tr := New()
	tr.Prime([]float64{1}, []float64{0.1})
	after := tr.SNRLinear()
	tr.Prime([]float64{1}, []float64{1000}) // Should be ignored.
	if tr.SNRLinear() != after {
		t.Errorf("second Prime() call changed snr: got %v want %v", tr.SNRLinear(), after)
	}
}

package logging

import "testing"

func TestNewProgressSamplerBucket(t *testing.T) {
	for _, tt := range []struct {
		in, want float64
	}{{0, 25}, {-3, 25}, {10, 10}} {
		if got := NewProgressSampler(tt.in).bucketPercent; got != tt.want {
			t.Errorf("NewProgressSampler(%v).bucketPercent = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressSamplerNilAlwaysEmits(t *testing.T) {
	var s *ProgressSampler
	if !s.Sample("a.mkv", 1, 2) {
		t.Fatal("nil sampler should emit")
	}
}

func TestProgressSamplerBytes(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		path   string
		hashed int64
		size   int64
		want   bool
	}{
		{"a.mkv", 0, 1000, true},
		{"a.mkv", 100, 1000, false},
		{"a.mkv", 250, 1000, true},
		{"a.mkv", 499, 1000, false},
		{"a.mkv", 1000, 1000, true},
		{"a.mkv", 1500, 1000, false},
		{"b.mkv", 10, 0, true},
		{"b.mkv", 20, 0, false},
		{"c.ivf", 60, 100, true},
		{"c.ivf", 70, 100, false},
	}
	for i, step := range steps {
		if got := s.Sample(step.path, step.hashed, step.size); got != step.want {
			t.Fatalf("step %d (%s %d/%d): got %v want %v", i, step.path, step.hashed, step.size, got, step.want)
		}
	}

	if !s.Sample("a.mkv", 100, 1000) {
		t.Fatal("returning to an earlier path starts it over")
	}
}

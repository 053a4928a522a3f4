package demux

import (
	"errors"
	"testing"
)

func TestNewSourceSelectsBackend(t *testing.T) {
	cases := []struct {
		backend Backend
		path    string
		wantIVF bool
	}{
		{BackendAuto, "clip.ivf", true},
		{BackendAuto, "CLIP.IVF", true},
		{BackendAuto, "movie.mkv", false},
		{BackendFFmpeg, "clip.ivf", false},
		{BackendIVF, "movie.mkv", true},
	}
	for _, tc := range cases {
		src, err := NewSource(tc.backend, tc.path)
		if !tc.wantIVF && !FFmpegAvailable {
			if !errors.Is(err, ErrBackendUnavailable) {
				t.Fatalf("NewSource(%s, %s) without libav = %v, want ErrBackendUnavailable", tc.backend, tc.path, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewSource(%s, %s): %v", tc.backend, tc.path, err)
		}
		_, isIVF := src.(*IVF)
		if isIVF != tc.wantIVF {
			t.Fatalf("NewSource(%s, %s) = %T", tc.backend, tc.path, src)
		}
	}
	if _, err := NewSource("gstreamer", "x.mkv"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestParseBackend(t *testing.T) {
	for input, want := range map[string]Backend{"": BackendAuto, "FFmpeg": BackendFFmpeg, " ivf ": BackendIVF} {
		got, err := ParseBackend(input)
		if err != nil || got != want {
			t.Fatalf("ParseBackend(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseBackend("vlc"); err == nil {
		t.Fatal("expected error for vlc")
	}
}

package media

import (
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("/tmp/scratch")

	if opts.Format != "bestaudio/best" {
		t.Errorf("Format = %q, want bestaudio/best", opts.Format)
	}
	if opts.AudioFormat != "mp3" {
		t.Errorf("AudioFormat = %q, want mp3", opts.AudioFormat)
	}
	if opts.AudioBitrate != "192" {
		t.Errorf("AudioBitrate = %q, want 192", opts.AudioBitrate)
	}
	if want := filepath.Join("/tmp/scratch", "%(title)s.%(ext)s"); opts.OutputTemplate != want {
		t.Errorf("OutputTemplate = %q, want %q", opts.OutputTemplate, want)
	}
	if !opts.NoPlaylist {
		t.Error("NoPlaylist should be true")
	}
	if !opts.Quiet {
		t.Error("Quiet should default to true")
	}
}

func TestDefaultOptions_FreshPerCall(t *testing.T) {
	a := DefaultOptions("a")
	b := DefaultOptions("b")

	a.PlayerClients[0] = "tv"
	a.SkipProtocols = append(a.SkipProtocols, "m3u8")

	if b.PlayerClients[0] != "android" {
		t.Errorf("second options PlayerClients[0] = %q, want android", b.PlayerClients[0])
	}
	if len(b.SkipProtocols) != 2 {
		t.Errorf("second options SkipProtocols = %v, want [hls dash]", b.SkipProtocols)
	}
}

func TestOptions_ExtractorArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "defaults",
			opts: DefaultOptions("x"),
			want: "youtube:player_client=android,web;skip=hls,dash",
		},
		{
			name: "clients only",
			opts: Options{PlayerClients: []string{"web"}},
			want: "youtube:player_client=web",
		},
		{
			name: "nothing",
			opts: Options{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.ExtractorArgs(); got != tt.want {
				t.Errorf("ExtractorArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ytmp3/domain/media"
)

// --- Mock implementations for testing ---

// mockExtractor implements media.Extractor for testing
type mockExtractor struct {
	mu         sync.Mutex
	meta       media.Metadata
	probeErr   error
	fetchErr   error
	writeFile  bool
	writeAs    string
	probeCalls int
	fetchOpts  []media.Options
	deadline   bool
}

func (m *mockExtractor) Probe(ctx context.Context, url string, opts media.Options) (*media.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeCalls++
	_, m.deadline = ctx.Deadline()
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	meta := m.meta
	return &meta, nil
}

func (m *mockExtractor) Fetch(ctx context.Context, url string, opts media.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchOpts = append(m.fetchOpts, opts)
	if m.fetchErr != nil {
		return m.fetchErr
	}
	if m.writeFile {
		title := m.meta.Title
		if title == "" {
			title = media.UnknownTitle
		}
		if m.writeAs != "" {
			title = m.writeAs
		}
		path := media.OutputPath(filepath.Dir(opts.OutputTemplate), title)
		return os.WriteFile(path, []byte("ID3fake"), 0644)
	}
	return nil
}

// mockFileChecker implements media.FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

type osChecker struct{}

func (osChecker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mockTagger implements media.Tagger for testing
type mockTagger struct {
	tagged []string
	err    error
}

func (m *mockTagger) Tag(path string, meta media.Metadata) error {
	m.tagged = append(m.tagged, path+"|"+meta.Title)
	return m.err
}

func TestService_Probe(t *testing.T) {
	extractor := &mockExtractor{meta: media.Metadata{Title: "Test Song", Duration: 212}}
	svc := NewService(extractor, osChecker{})

	meta, err := svc.Probe(context.Background(), " https://example.com/video ")
	if err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}
	if meta.Title != "Test Song" || meta.Duration != 212 {
		t.Errorf("Probe() = %+v, want Test Song / 212", meta)
	}
}

func TestService_Probe_UnknownTitle(t *testing.T) {
	svc := NewService(&mockExtractor{}, osChecker{})

	meta, err := svc.Probe(context.Background(), "https://example.com/video")
	if err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}
	if meta.Title != media.UnknownTitle {
		t.Errorf("Probe() title = %q, want %q", meta.Title, media.UnknownTitle)
	}
}

func TestService_Probe_EmptyURL(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewService(extractor, osChecker{})

	_, err := svc.Probe(context.Background(), "  ")
	if media.KindOf(err) != media.KindValidation {
		t.Fatalf("Probe() kind = %v, want validation", media.KindOf(err))
	}
	if extractor.probeCalls != 0 {
		t.Errorf("extractor was called %d times, want 0", extractor.probeCalls)
	}
}

func TestService_Probe_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		probeErr error
		want     media.Kind
	}{
		{
			name:     "extraction failure is preserved",
			probeErr: media.ExtractionError("yt-dlp", errors.New("Video unavailable")),
			want:     media.KindExtraction,
		},
		{
			name:     "unclassified failure becomes internal",
			probeErr: errors.New("exec: yt-dlp not found"),
			want:     media.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockExtractor{probeErr: tt.probeErr}, osChecker{})

			_, err := svc.Probe(context.Background(), "https://example.com/video")
			if err == nil {
				t.Fatal("Probe() expected error, got nil")
			}
			if got := media.KindOf(err); got != tt.want {
				t.Errorf("Probe() kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Fetch(t *testing.T) {
	extractor := &mockExtractor{}
	svc := NewService(extractor, osChecker{}, WithBitrate("320"), WithQuiet(false))

	result, err := svc.Fetch(context.Background(), "https://example.com/video", "/music", "Test Song")
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}

	if want := filepath.Join("/music", "Test Song.mp3"); result.FilePath != want {
		t.Errorf("FilePath = %q, want %q", result.FilePath, want)
	}
	if result.FileName != "Test Song.mp3" {
		t.Errorf("FileName = %q, want %q", result.FileName, "Test Song.mp3")
	}

	if len(extractor.fetchOpts) != 1 {
		t.Fatalf("extractor fetched %d times, want 1", len(extractor.fetchOpts))
	}
	opts := extractor.fetchOpts[0]
	if opts.AudioBitrate != "320" {
		t.Errorf("AudioBitrate = %q, want 320", opts.AudioBitrate)
	}
	if opts.Quiet {
		t.Error("Quiet should be false")
	}
	if want := filepath.Join("/music", media.OutputTemplate); opts.OutputTemplate != want {
		t.Errorf("OutputTemplate = %q, want %q", opts.OutputTemplate, want)
	}
}

func TestService_Fetch_MissingOutputDir(t *testing.T) {
	svc := NewService(&mockExtractor{}, osChecker{})

	_, err := svc.Fetch(context.Background(), "https://example.com/video", "", "x")
	if !errors.Is(err, media.ErrMissingOutputDir) {
		t.Errorf("Fetch() error = %v, want ErrMissingOutputDir", err)
	}
}

func TestService_Download(t *testing.T) {
	dir := t.TempDir()
	extractor := &mockExtractor{
		meta:      media.Metadata{Title: "Test Song", Duration: 95},
		writeFile: true,
	}
	tagger := &mockTagger{}
	svc := NewService(extractor, osChecker{}, WithTagger(tagger))

	req, _ := media.NewDownloadRequest("https://example.com/video", dir)
	result, err := svc.Download(context.Background(), req)
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}

	if result.FileName != "Test Song.mp3" {
		t.Errorf("FileName = %q, want %q", result.FileName, "Test Song.mp3")
	}
	if result.FilePath != filepath.Join(dir, "Test Song.mp3") {
		t.Errorf("FilePath = %q", result.FilePath)
	}
	if result.Duration != 95 {
		t.Errorf("Duration = %d, want 95", result.Duration)
	}
	if len(tagger.tagged) != 1 || tagger.tagged[0] != result.FilePath+"|Test Song" {
		t.Errorf("tagger calls = %v", tagger.tagged)
	}
}

func TestService_Download_TagFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	extractor := &mockExtractor{meta: media.Metadata{Title: "Song"}, writeFile: true}
	svc := NewService(extractor, osChecker{}, WithTagger(&mockTagger{err: errors.New("bad frame")}))

	req, _ := media.NewDownloadRequest("https://example.com/video", dir)
	if _, err := svc.Download(context.Background(), req); err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}
}

func TestService_Download_OutputMissing(t *testing.T) {
	extractor := &mockExtractor{meta: media.Metadata{Title: "Ghost"}}
	svc := NewService(extractor, &mockFileChecker{existingFiles: map[string]bool{}})

	req, _ := media.NewDownloadRequest("https://example.com/video", "/scratch")
	_, err := svc.Download(context.Background(), req)

	if !errors.Is(err, media.ErrOutputMissing) {
		t.Fatalf("Download() error = %v, want ErrOutputMissing", err)
	}
	if media.KindOf(err) != media.KindInternal {
		t.Errorf("Download() kind = %v, want internal", media.KindOf(err))
	}
}

func TestService_Download_FetchFailure(t *testing.T) {
	extractor := &mockExtractor{
		meta:     media.Metadata{Title: "Song"},
		fetchErr: media.ExtractionError("yt-dlp", errors.New("HTTP Error 403: Forbidden")),
	}
	svc := NewService(extractor, osChecker{})

	req, _ := media.NewDownloadRequest("https://example.com/video", t.TempDir())
	_, err := svc.Download(context.Background(), req)

	if media.KindOf(err) != media.KindExtraction {
		t.Fatalf("Download() kind = %v, want extraction", media.KindOf(err))
	}
	if media.Cause(err) != "HTTP Error 403: Forbidden" {
		t.Errorf("Cause() = %q", media.Cause(err))
	}
}

func TestService_Download_SanitizedFilename(t *testing.T) {
	dir := t.TempDir()
	extractor := &mockExtractor{meta: media.Metadata{Title: "AC DC: Live"}, writeFile: true}
	svc := NewService(extractor, osChecker{}, WithSanitizedFilenames(true))

	req, _ := media.NewDownloadRequest("https://example.com/video", dir)
	result, err := svc.Download(context.Background(), req)
	if err != nil {
		t.Fatalf("Download() unexpected error: %v", err)
	}
	if result.FileName != "AC_DC_Live.mp3" {
		t.Errorf("FileName = %q, want AC_DC_Live.mp3", result.FileName)
	}
	if result.FilePath != filepath.Join(dir, "AC DC: Live.mp3") {
		t.Errorf("FilePath = %q, want the raw title on disk", result.FilePath)
	}
}

func TestService_Timeout(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{"no timeout by default", 0, false},
		{"timeout applied", time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &mockExtractor{meta: media.Metadata{Title: "x"}}
			svc := NewService(extractor, osChecker{}, WithTimeout(tt.timeout))

			if _, err := svc.Probe(context.Background(), "https://example.com/video"); err != nil {
				t.Fatalf("Probe() unexpected error: %v", err)
			}
			if extractor.deadline != tt.wantDeadline {
				t.Errorf("deadline set = %v, want %v", extractor.deadline, tt.wantDeadline)
			}
		})
	}
}

// yt-dlp writes "Artist: Song" as "Artist： Song"; the expected path no longer matches
func TestService_Download_RewrittenTitleIsReportedMissing(t *testing.T) {
	dir := t.TempDir()
	extractor := &mockExtractor{
		meta:      media.Metadata{Title: "Artist: Song"},
		writeFile: true,
		writeAs:   "Artist\uff1a Song",
	}
	svc := NewService(extractor, osChecker{})

	req, _ := media.NewDownloadRequest("https://example.com/video", dir)
	_, err := svc.Download(context.Background(), req)

	if !errors.Is(err, media.ErrOutputMissing) {
		t.Fatalf("Download() error = %v, want ErrOutputMissing", err)
	}
	if media.KindOf(err) != media.KindInternal {
		t.Errorf("kind = %v, want internal", media.KindOf(err))
	}
	if _, statErr := os.Stat(filepath.Join(dir, "Artist\uff1a Song.mp3")); statErr != nil {
		t.Errorf("expected yt-dlp style filename on disk: %v", statErr)
	}
}

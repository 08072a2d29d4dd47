package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytmp3/domain/media"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
)

// FetchResult contains the file produced by a fetch
type FetchResult struct {
	FilePath string
	FileName string
}

// Service coordinates probing and fetching through an Extractor.
// It holds only settings; every call builds its own Options.
type Service struct {
	extractor   media.Extractor
	fileChecker media.FileChecker
	tagger      media.Tagger
	logger      log.Interface
	bitrate     string
	quiet       bool
	sanitize    bool
	timeout     time.Duration
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithBitrate overrides the MP3 bitrate in kbps
func WithBitrate(kbps string) ServiceOption {
	return func(s *Service) {
		if kbps != "" {
			s.bitrate = kbps
		}
	}
}

// WithQuiet controls whether the extractor prints its own progress
func WithQuiet(quiet bool) ServiceOption {
	return func(s *Service) {
		s.quiet = quiet
	}
}

// WithTimeout bounds each extractor call. Zero means no limit.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithTagger writes ID3 metadata into files produced by Download
func WithTagger(t media.Tagger) ServiceOption {
	return func(s *Service) {
		s.tagger = t
	}
}

// WithSanitizedFilenames makes Download deliver a sanitized filename
// instead of the raw title.
func WithSanitizedFilenames(enabled bool) ServiceOption {
	return func(s *Service) {
		s.sanitize = enabled
	}
}

// WithLogger sets the logger
func WithLogger(l log.Interface) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new Service
func NewService(extractor media.Extractor, fileChecker media.FileChecker, opts ...ServiceOption) *Service {
	s := &Service{
		extractor:   extractor,
		fileChecker: fileChecker,
		logger:      &log.Logger{Handler: discard.New(), Level: log.ErrorLevel},
		bitrate:     media.DefaultAudioBitrate,
		quiet:       true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) options(outputDir string) media.Options {
	opts := media.DefaultOptions(outputDir)
	opts.AudioBitrate = s.bitrate
	opts.Quiet = s.quiet
	return opts
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Probe discovers the title and duration of url without downloading it
func (s *Service) Probe(ctx context.Context, url string) (*media.Metadata, error) {
	url, err := media.ValidateURL(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	meta, err := s.extractor.Probe(ctx, url, s.options(""))
	if err != nil {
		return nil, classify("probe", err)
	}

	if meta.Title == "" {
		meta.Title = media.UnknownTitle
	}
	return meta, nil
}

// Fetch downloads url into outputDir and returns where the MP3 for title lands
func (s *Service) Fetch(ctx context.Context, url, outputDir, title string) (*FetchResult, error) {
	req, err := media.NewDownloadRequest(url, outputDir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.extractor.Fetch(ctx, req.SourceURL, s.options(req.OutputDir)); err != nil {
		return nil, classify("fetch", err)
	}

	// The path assumes yt-dlp writes the title verbatim. yt-dlp replaces
	// characters such as / : ? * | " < > with full-width look-alikes, so
	// for those titles the file lands under a different name and Download
	// reports it as missing.
	// TODO: read the final path from yt-dlp (--print after_move:filepath)
	// instead of rebuilding it from the title.
	return &FetchResult{
		FilePath: media.OutputPath(req.OutputDir, title),
		FileName: media.OutputFilename(title),
	}, nil
}

// Download probes and fetches req, then confirms the MP3 exists on disk
func (s *Service) Download(ctx context.Context, req *media.DownloadRequest) (*media.Result, error) {
	meta, err := s.Probe(ctx, req.SourceURL)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{
		"title":    meta.Title,
		"duration": meta.Duration,
	}).Debug("probed media")

	fetched, err := s.Fetch(ctx, req.SourceURL, req.OutputDir, meta.Title)
	if err != nil {
		return nil, err
	}

	if !s.fileChecker.Exists(fetched.FilePath) {
		return nil, media.InternalError("confirm output", fmt.Errorf("%w: %s", media.ErrOutputMissing, fetched.FilePath))
	}

	if s.tagger != nil {
		if err := s.tagger.Tag(fetched.FilePath, *meta); err != nil {
			s.logger.WithError(err).WithField("path", fetched.FilePath).Warn("failed to write tags")
		}
	}

	fileName := fetched.FileName
	if s.sanitize {
		fileName = media.OutputFilename(media.SanitizeTitle(meta.Title))
	}

	return &media.Result{
		Title:    meta.Title,
		Duration: meta.Duration,
		FilePath: fetched.FilePath,
		FileName: fileName,
	}, nil
}

// classify keeps adapter classifications and marks anything else internal
func classify(op string, err error) error {
	var classified *media.Error
	if errors.As(err, &classified) {
		return err
	}
	return media.InternalError(op, err)
}

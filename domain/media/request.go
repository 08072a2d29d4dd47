package media

import "strings"

// DefaultOutputDirectory is where the CLI writes files when no directory is given
const DefaultOutputDirectory = "downloads"

// DownloadRequest is a single audio download: one source URL into one directory
type DownloadRequest struct {
	SourceURL string
	OutputDir string
}

// ValidateURL trims raw and rejects it when nothing is left.
func ValidateURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ValidationError("validate url", ErrMissingURL)
	}
	return url, nil
}

// NewDownloadRequest creates a DownloadRequest with validation
func NewDownloadRequest(rawURL, outputDir string) (*DownloadRequest, error) {
	url, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(outputDir) == "" {
		return nil, ValidationError("validate output directory", ErrMissingOutputDir)
	}

	return &DownloadRequest{
		SourceURL: url,
		OutputDir: outputDir,
	}, nil
}

package media

import "context"

// Extractor defines the external media-extraction capability
// This is a port that can be implemented by different infrastructure adapters
type Extractor interface {
	// Probe fetches metadata for url without writing any file
	Probe(ctx context.Context, url string, opts Options) (*Metadata, error)

	// Fetch downloads and transcodes url according to opts.OutputTemplate
	Fetch(ctx context.Context, url string, opts Options) error
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// Tagger writes metadata into a produced audio file
type Tagger interface {
	Tag(path string, meta Metadata) error
}

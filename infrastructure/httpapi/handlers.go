package httpapi

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"strings"

	"ytmp3/domain/media"
	"ytmp3/infrastructure/filesystem"
)

const (
	exampleVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	msgURLRequired    = "url parameter is required"
	msgDownloadError  = "download error"
	msgGenerateFailed = "failed to generate the MP3 file"
	msgUnexpected     = "an unexpected error occurred"
	msgSeeLogs        = "the request could not be completed"
)

type usage struct {
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	Parameter string `json:"parameter"`
	Example   string `json:"example"`
}

type indexResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Usage   usage  `json:"usage"`
	Note    string `json:"note"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Example   string `json:"example,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Service: "YouTube to MP3 Converter",
		Version: s.version,
		Usage: usage{
			Endpoint:  "/download",
			Method:    http.MethodGet,
			Parameter: "url (YouTube video URL)",
			Example:   exampleURL(r),
		},
		Note: "MP3 files are generated per request and deleted automatically after download.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	url, err := media.ValidateURL(r.URL.Query().Get("url"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   msgURLRequired,
			Example: exampleURL(r),
		})
		return
	}

	id := requestID(r.Context())
	scratch, err := filesystem.NewScratch(s.scratchDir, id)
	if err != nil {
		s.writeError(w, r, media.InternalError("create scratch", err))
		return
	}
	defer scratch.Release()

	req, err := media.NewDownloadRequest(url, scratch.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.downloader.Download(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := os.Open(result.FilePath)
	if err != nil {
		s.writeError(w, r, media.InternalError("open output", errors.Join(media.ErrOutputMissing, err)))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, r, media.InternalError("stat output", err))
		return
	}

	s.logger.WithFields(logFields(r, map[string]any{
		"title": result.Title,
		"bytes": info.Size(),
	})).Info("delivering file")

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", contentDisposition(result.FileName))
	http.ServeContent(w, r, result.FileName, info.ModTime(), f)
}

// writeError maps a classified error onto a JSON response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	entry := s.logger.WithFields(logFields(r, nil)).WithError(err)

	switch media.KindOf(err) {
	case media.KindValidation:
		entry.Warn("invalid request")
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   media.Cause(err),
			Example: exampleURL(r),
		})

	case media.KindExtraction:
		entry.Warn("extraction failed")
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   msgDownloadError,
			Message: media.Cause(err),
		})

	default:
		entry.Error("internal error")
		msg := msgUnexpected
		if errors.Is(err, media.ErrOutputMissing) {
			msg = msgGenerateFailed
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     msg,
			Message:   msgSeeLogs,
			RequestID: requestID(r.Context()),
		})
	}
}

// exampleURL builds a usage example rooted at the URL the client used
func exampleURL(r *http.Request) string {
	return urlRoot(r) + "download?url=" + exampleVideoURL
}

func urlRoot(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
		scheme = strings.TrimSpace(scheme)
	}
	return scheme + "://" + r.Host + "/"
}

// contentDisposition returns an attachment header for name, using RFC 2231
// encoding when the name is not plain ASCII.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name)
	return `attachment; filename="` + escaped + `"`
}

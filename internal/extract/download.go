package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

const (
	downloadTimeout = 60 * time.Second
	maxDocumentSize = 50 << 20
)

var downloadClient = &fasthttp.Client{
	MaxResponseBodySize: maxDocumentSize,
	ReadTimeout:         downloadTimeout,
	WriteTimeout:        10 * time.Second,
}

// Download fetches a remote protocol document into a transient file and
// returns its path plus a cleanup callback. The caller must invoke
// cleanup regardless of import success; the document never outlives the
// import that requested it.
func Download(ctx context.Context, documentURL string) (string, func(), error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(documentURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	if err := downloadClient.DoRedirects(req, resp, 5); err != nil {
		return "", nil, errors.Wrapf(err, "download %s", documentURL)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return "", nil, errors.Newf("download %s: status %d", documentURL, status)
	}

	file, err := os.CreateTemp("", "protocol-*"+documentExtension(documentURL))
	if err != nil {
		return "", nil, errors.Wrap(err, "create temp file")
	}

	if _, err := file.Write(resp.Body()); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", nil, errors.Wrap(err, "write temp file")
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", nil, errors.Wrap(err, "close temp file")
	}

	path := file.Name()
	cleanup := func() { _ = os.Remove(path) }
	return path, cleanup, nil
}

func documentExtension(documentURL string) string {
	trimmed := documentURL
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	ext := strings.ToLower(filepath.Ext(trimmed))
	switch ext {
	case ".xlsx", ".xls", ".pdf", ".csv":
		return ext
	default:
		return ""
	}
}

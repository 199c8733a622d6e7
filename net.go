// HTTP transport: existence probes and whole-file or ranged transfers.

package awhina

import (
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type httpProber struct {
	client *http.Client
}

// CheckGrib issues a HEAD request and requires both HTTP success and a
// Content-Length above minSize. Archives answer missing runs with small
// HTML error pages, which the threshold rejects.
func (p *httpProber) CheckGrib(url string, minSize int64) (bool, error) {
	resp, err := p.client.Head(url)
	if err != nil {
		return false, errors.WithMessagef(ErrTransfer, "HEAD %s: %v", url, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	return resp.ContentLength > minSize, nil
}

// CheckIdx issues a HEAD request for the index URL. No size threshold:
// index files are legitimately tiny.
func (p *httpProber) CheckIdx(url string) (bool, error) {
	resp, err := p.client.Head(url)
	if err != nil {
		return false, errors.WithMessagef(ErrTransfer, "HEAD %s: %v", url, err)
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// Ping warms up a backend known to fail its first TLS handshake.
func (p *httpProber) Ping(url string) error {
	resp, err := p.client.Head(url)
	if err != nil {
		return errors.WithMessagef(ErrTransfer, "ping %s: %v", url, err)
	}
	resp.Body.Close()
	return nil
}

type httpFetcher struct {
	client *http.Client
}

// FetchAll streams the whole file at url into w, logging progress by bytes
// transferred.
func (f *httpFetcher) FetchAll(url string, w io.Writer) (int64, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return 0, errors.WithMessagef(ErrTransfer, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.WithMessagef(ErrTransfer, "GET %s: HTTP %d", url, resp.StatusCode)
	}

	n, err := io.Copy(w, &progressReader{r: resp.Body, total: resp.ContentLength, url: url})
	if err != nil {
		return n, errors.WithMessagef(ErrTransfer, "GET %s: %v", url, err)
	}
	return n, nil
}

// FetchRange streams one inclusive byte range of the file at url into w.
// The range uses HTTP Range header syntax, e.g. "0-1023" or "5000-" for
// "to end of file".
func (f *httpFetcher) FetchRange(url string, byteRange string, w io.Writer) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "build request for %s", url)
	}
	req.Header.Set("Range", "bytes="+byteRange)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, errors.WithMessagef(ErrTransfer, "GET %s range %s: %v", url, byteRange, err)
	}
	defer resp.Body.Close()

	// Anything but partial content means the server ignored the Range
	// header and is about to send the whole file.
	if resp.StatusCode != http.StatusPartialContent {
		return 0, errors.WithMessagef(ErrTransfer,
			"GET %s range %s: expected HTTP 206, got %d", url, byteRange, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errors.WithMessagef(ErrTransfer, "GET %s range %s: %v", url, byteRange, err)
	}
	return n, nil
}

// fetchIndexText retrieves the raw index file text.
func fetchIndexText(cfg *Config, url string) (string, error) {
	if strings.HasPrefix(url, "s3://") {
		return fetchS3IndexText(url)
	}

	resp, err := cfg.httpClient().Get(url)
	if err != nil {
		return "", errors.WithMessagef(ErrTransfer, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.WithMessagef(ErrNotFound, "index %s: HTTP %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithMessagef(ErrTransfer, "read index %s: %v", url, err)
	}
	return string(raw), nil
}

// progressReader logs transfer progress roughly every reportEvery bytes.
type progressReader struct {
	r        io.Reader
	total    int64 // -1 when the server did not say
	url      string
	read     int64
	reported int64
}

const reportEvery = 32 * 1024 * 1024

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read += int64(n)
	if pr.read-pr.reported >= reportEvery || (err == io.EOF && pr.read > pr.reported) {
		pr.reported = pr.read
		fields := logrus.Fields{"url": pr.url, "bytes": pr.read}
		if pr.total > 0 {
			fields["percent"] = 100 * pr.read / pr.total
		}
		Logger.WithFields(fields).Info("download progress")
	}
	return n, err
}

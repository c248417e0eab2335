// Copyright 2025 Knowledge Graph Hub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const (
	// DefaultHeaderBytes is how much of an artifact is fetched for
	// version inspection. The owl:Ontology element sits at the head of
	// the document.
	DefaultHeaderBytes = 512 * 1024

	// chunkSize is the copy unit for full downloads; progress is
	// reported once per chunk.
	chunkSize = 1024
)

// ProgressFunc receives the byte count of each downloaded chunk.
type ProgressFunc func(n int64)

// Downloader retrieves ontology artifacts over HTTP.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a downloader. A nil client uses http.DefaultClient.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client}
}

// Header fetches up to maxBytes of the artifact at url. A Range request
// keeps bandwidth down when the server honors it; otherwise the body is
// read and truncated client-side.
func (d *Downloader) Header(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultHeaderBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building header request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", maxBytes-1))

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: %s returned %s", ErrDownload, url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrDownload, err)
	}
	return data, nil
}

// File downloads the artifact at url to path, streaming in fixed-size
// chunks. A response without a Content-Length is rejected: without it
// a truncated transfer cannot be told apart from a complete one.
// progress, when non-nil, is called once per chunk.
func (d *Downloader) File(ctx context.Context, url, path string, progress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s returned %s", ErrDownload, url, resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("%w: %s sent no content length", ErrMissingLength, url)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return written, fmt.Errorf("writing %s: %w", path, writeErr)
			}
			written += int64(n)
			if progress != nil {
				progress(int64(n))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("%w: %v", ErrDownload, readErr)
		}
	}

	if written != resp.ContentLength {
		return written, fmt.Errorf("%w: got %d of %d bytes from %s",
			ErrDownload, written, resp.ContentLength, url)
	}
	return written, nil
}

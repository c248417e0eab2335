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

package registry

import (
	"context"
	"net/http"
)

// Client bundles an HTTP client with a registry location.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a registry client. A nil httpClient falls back to
// http.DefaultClient, an empty url to DefaultURL.
func NewClient(httpClient *http.Client, url string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if url == "" {
		url = DefaultURL
	}
	return &Client{httpClient: httpClient, url: url}
}

// Entries downloads and parses the registry.
func (c *Client) Entries(ctx context.Context) ([]Entry, error) {
	return Fetch(ctx, c.httpClient, c.url)
}

// SourceURL resolves the download URL for an ontology ID.
func (c *Client) SourceURL(ctx context.Context, id string) string {
	return SourceURL(ctx, c.httpClient, id)
}

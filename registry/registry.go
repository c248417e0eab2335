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
	"fmt"
	"io"
	"net/http"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultURL is the stable location of the OBO Foundry registry document.
const DefaultURL = "https://raw.githubusercontent.com/OBOFoundry/OBOFoundry.github.io/master/registry/ontologies.yml"

// Entry describes one ontology in the registry document. Entries are
// immutable once fetched for a run.
type Entry struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title,omitempty"`
	OntologyPURL string   `yaml:"ontology_purl,omitempty"`
	IsObsolete   bool     `yaml:"is_obsolete,omitempty"`
	Imports      []string `yaml:"imports,omitempty"`
}

type document struct {
	Ontologies []Entry `yaml:"ontologies"`
}

// Fetch retrieves and parses the registry document at url.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry body: %w", err)
	}

	return Parse(body)
}

// Parse decodes a registry document. A document without an ontologies
// list is rejected rather than treated as empty.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Ontologies == nil {
		return nil, ErrMalformed
	}
	return doc.Ontologies, nil
}

// Filter returns the entries eligible for processing, in document order.
// Obsolete entries are excluded unconditionally. When allowList is
// non-empty only matching entries pass; otherwise entries matching
// skipList are dropped. List items are exact identifiers or doublestar
// glob patterns.
func Filter(entries []Entry, skipList, allowList []string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsObsolete {
			continue
		}
		if len(allowList) > 0 {
			if matchesAny(allowList, e.ID) {
				out = append(out, e)
			}
			continue
		}
		if matchesAny(skipList, e.ID) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesAny(patterns []string, id string) bool {
	for _, p := range patterns {
		if p == id {
			return true
		}
		if ok, err := doublestar.Match(p, id); err == nil && ok {
			return true
		}
	}
	return false
}

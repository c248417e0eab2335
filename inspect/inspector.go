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

package inspect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Knowledge-Graph-Hub/obo2kghub/core"
)

// The required metadata sits in the owl:Ontology element near the head of
// the document, so the whole document is never parsed. Keep this behind
// the package boundary: callers only see Descriptor and Imports.
var (
	versionIRIPattern = regexp.MustCompile(`owl:versionIRI rdf:resource="([^"]+)"`)
	aboutPattern      = regexp.MustCompile(`owl:Ontology rdf:about="([^"]+)"`)
	importsPattern    = regexp.MustCompile(`owl:imports rdf:resource="([^"]+)"`)

	// Version fallbacks, first match wins.
	versionFieldPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<oboInOwl:date[^>]*>([^<\n]+)<`),
		regexp.MustCompile(`<dc:date[^>]*>([^<\n]+)<`),
		regexp.MustCompile(`<owl:versionInfo[^>]*>([^<\n]+)<`),
		regexp.MustCompile(`<versionInfo[^>]*>([^<\n]+)<`),
	}
)

// Descriptor derives a version descriptor from the header region of an
// ontology document. Malformed or empty input yields the default
// descriptor rather than an error: some ontologies omit standard version
// metadata entirely, which is a soft condition, not a failure.
func Descriptor(header []byte) core.VersionDescriptor {
	d := core.VersionDescriptor{}

	if m := versionIRIPattern.FindSubmatch(header); m != nil {
		d.IRI = string(m[1])
		d.Version = versionFromIRI(d.IRI)
	} else if m := aboutPattern.FindSubmatch(header); m != nil {
		d.IRI = string(m[1])
	}

	if d.Version == "" {
		for _, p := range versionFieldPatterns {
			if m := p.FindSubmatch(header); m != nil {
				d.Version = url.PathEscape(strings.TrimSpace(string(m[1])))
				break
			}
		}
	}

	if d.IRI == "" {
		d.IRI = core.DefaultMarker
	}
	if d.Version == "" {
		d.Version = core.DefaultMarker
	}
	return d
}

// versionFromIRI extracts the short version token from a version IRI.
// The usual layout puts the version second to last, as in
// .../obo/bfo/2021-08-26/bfo.owl. One source nests the version one
// segment higher; a token without any digit is not version-shaped, so
// the segment above it is tried before giving up.
func versionFromIRI(iri string) string {
	segs := strings.Split(strings.TrimSuffix(iri, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	token := segs[len(segs)-2]
	if !hasDigit(token) && len(segs) >= 3 && hasDigit(segs[len(segs)-3]) {
		token = segs[len(segs)-3]
	}
	if !hasDigit(token) {
		return ""
	}
	return url.PathEscape(token)
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// Imports returns the import references declared in the header region.
// A non-empty result marks the ontology as unsupported: cross-ontology
// import graphs are not resolved.
func Imports(header []byte) []string {
	matches := importsPattern.FindAllSubmatch(header, -1)
	if len(matches) == 0 {
		return nil
	}
	imports := make([]string, 0, len(matches))
	for _, m := range matches {
		imports = append(imports, string(m[1]))
	}
	return imports
}

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

package publish

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
)

const indexFileName = "index.html"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Index of {{.Title}}</title></head>
<body>
<h1>Index of {{.Title}}</h1>
<ul>
<li><a href="../">../</a></li>
{{- range .Entries}}
<li><a href="{{.}}">{{.}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type indexData struct {
	Title   string
	Entries []string
}

// WriteIndex regenerates dir/index.html listing the directory contents.
// Subdirectories get a trailing slash; an existing index.html is replaced
// and does not list itself.
func WriteIndex(dir, title string) error {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}

	var entries []string
	for _, de := range dirents {
		name := de.Name()
		if name == indexFileName {
			continue
		}
		if de.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
	}
	sort.Strings(entries)

	data, err := renderIndex(title, entries)
	if err != nil {
		return fmt.Errorf("rendering index for %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, indexFileName), data, 0o644)
}

func renderIndex(title string, entries []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{Title: title, Entries: entries}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

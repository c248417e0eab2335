package registry

import (
	"context"
	"fmt"
	"net/http"
)

const oboPURLRoot = "http://purl.obolibrary.org/obo"

// SourceURL resolves the download URL for an ontology. The "base"
// artifact, which excludes foreign axioms, is preferred whenever the
// OBO PURL for it resolves; otherwise the plain artifact URL is used.
func SourceURL(ctx context.Context, client *http.Client, id string) string {
	if client == nil {
		client = http.DefaultClient
	}

	base := fmt.Sprintf("%s/%s/%s-base.owl", oboPURLRoot, id, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, base, nil)
	if err == nil {
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
	}

	return fmt.Sprintf("%s/%s.owl", oboPURLRoot, id)
}

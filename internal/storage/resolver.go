package storage

import (
	"context"

	"github.com/nurpe/hvut-filing/internal/model"
)

// Resolver locates a filing's artifact across the historical key layouts:
// current scheme first, then the retired per-user layout, then whatever
// raw key the filing row recorded.
type Resolver struct {
	store ObjectStore
}

func NewResolver(store ObjectStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the first key that exists and whether any did. When
// nothing resolves, the recorded key comes back with found=false so the
// caller can surface a precise not-found error instead of a wrong file.
func (r *Resolver) Resolve(ctx context.Context, filing *model.Filing, docType model.DocumentType) (string, bool, error) {
	recorded := filing.RecordedKey(docType)

	candidates := []string{
		ArtifactKey(filing.ID, docType),
		legacyArtifactKey(filing.UserID, filing.Month, docType),
	}
	if recorded != "" {
		candidates = append(candidates, recorded)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, key := range candidates {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		exists, err := r.store.Exists(ctx, key)
		if err != nil {
			return "", false, err
		}
		if exists {
			return key, true, nil
		}
	}
	return recorded, false, nil
}

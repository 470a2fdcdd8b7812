package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/hvut-filing/internal/model"
)

func resolverFixture(t *testing.T) (*Resolver, *FSStore, *model.Filing) {
	t.Helper()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	pdfKey := "filing_stale/form2290.pdf"
	filing := &model.Filing{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Month:  "202508",
		XMLKey: "filing_stale/form2290.xml",
		PDFKey: &pdfKey,
	}
	return NewResolver(store), store, filing
}

func TestResolvePrefersCurrentScheme(t *testing.T) {
	ctx := context.Background()
	resolver, store, filing := resolverFixture(t)

	current := ArtifactKey(filing.ID, model.DocumentPDF)
	require.NoError(t, store.Put(ctx, current, []byte("%PDF"), ""))
	// the recorded key also exists but must not win
	require.NoError(t, store.Put(ctx, *filing.PDFKey, []byte("%PDF old"), ""))

	key, found, err := resolver.Resolve(ctx, filing, model.DocumentPDF)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, current, key)
}

func TestResolveFallsBackToLegacyScheme(t *testing.T) {
	ctx := context.Background()
	resolver, store, filing := resolverFixture(t)

	legacy := legacyArtifactKey(filing.UserID, filing.Month, model.DocumentXML)
	require.NoError(t, store.Put(ctx, legacy, []byte("<Form2290Return/>"), ""))

	key, found, err := resolver.Resolve(ctx, filing, model.DocumentXML)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, legacy, key)
}

func TestResolveFallsBackToRecordedKey(t *testing.T) {
	ctx := context.Background()
	resolver, store, filing := resolverFixture(t)

	require.NoError(t, store.Put(ctx, filing.XMLKey, []byte("<Form2290Return/>"), ""))

	key, found, err := resolver.Resolve(ctx, filing, model.DocumentXML)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filing.XMLKey, key)
}

// Nothing on disk: the recorded key comes back with found=false so the
// caller reports exactly what is missing.
func TestResolveNothingFound(t *testing.T) {
	ctx := context.Background()
	resolver, _, filing := resolverFixture(t)

	key, found, err := resolver.Resolve(ctx, filing, model.DocumentPDF)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, *filing.PDFKey, key)
}

func TestResolveNoRecordedPDFKey(t *testing.T) {
	ctx := context.Background()
	resolver, _, filing := resolverFixture(t)
	filing.PDFKey = nil

	key, found, err := resolver.Resolve(ctx, filing, model.DocumentPDF)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, key)
}

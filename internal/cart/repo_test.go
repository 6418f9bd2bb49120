package cart

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE carts (
			session_id TEXT PRIMARY KEY,
			items      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	require.NoError(t, err)

	return NewRepo(db)
}

func TestReadMissingCartIsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	items := repo.Read(context.Background(), "nobody")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestPersistReadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items, _ := Add(nil, camera())
	items, _ = Add(items, lens())
	require.NoError(t, repo.Persist(ctx, "s1", items))

	got := repo.Read(ctx, "s1")
	require.Len(t, got, 2)
	assert.Equal(t, items[0].ID, got[0].ID)
	assert.Equal(t, items[1].ID, got[1].ID)
	assert.True(t, got[0].Price.Equal(items[0].Price.Decimal))

	// persisting what was read back changes nothing
	require.NoError(t, repo.Persist(ctx, "s1", got))
	again := repo.Read(ctx, "s1")
	assert.Equal(t, got, again)
}

func TestPersistOverwritesWholeCart(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items, _ := Add(nil, camera())
	require.NoError(t, repo.Persist(ctx, "s1", items))

	// the next write fully replaces the previous content
	replacement, _ := Add(nil, lens())
	require.NoError(t, repo.Persist(ctx, "s1", replacement))

	got := repo.Read(ctx, "s1")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestCorruptBlobReadsAsEmptyCart(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.DB.Exec(`INSERT INTO carts (session_id, items) VALUES ('s1', 'not json at all')`)
	require.NoError(t, err)

	items := repo.Read(ctx, "s1")
	assert.NotNil(t, items)
	assert.Empty(t, items)

	// the session recovers on the next persist
	fresh, _ := Add(nil, camera())
	require.NoError(t, repo.Persist(ctx, "s1", fresh))
	assert.Len(t, repo.Read(ctx, "s1"), 1)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, _ := Add(nil, camera())
	b, _ := Add(nil, lens())
	require.NoError(t, repo.Persist(ctx, "alice", a))
	require.NoError(t, repo.Persist(ctx, "bob", b))

	assert.Equal(t, 1, repo.Read(ctx, "alice")[0].ID)
	assert.Equal(t, 3, repo.Read(ctx, "bob")[0].ID)
}

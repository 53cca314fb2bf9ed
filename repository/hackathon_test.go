package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHackathonRepo(t *testing.T) *HackathonRepository {
	t.Helper()
	return NewHackathonRepository(newTestCatalog(t, CollectionHackathons), testLogger())
}

func TestHackathonCreateAndRead(t *testing.T) {
	repo := newHackathonRepo(t)
	ctx := context.Background()

	res := repo.Create(ctx, Hackathon{
		ID:          "h1",
		Title:       "Web3 Jam",
		Description: "A storage sprint.",
	})
	require.True(t, res.Success, "create failed: %+v", res.Error)

	created, ok := res.Data.(Hackathon)
	require.True(t, ok)
	assert.Equal(t, "web3-jam", created.Slug)

	got := repo.Get(ctx, "h1")
	require.True(t, got.Success)
	fetched := got.Data.(Hackathon)
	assert.Equal(t, "Web3 Jam", fetched.Title)
	assert.Equal(t, "web3-jam", fetched.Slug)

	bySlug := repo.GetBySlug(ctx, "web3-jam")
	require.True(t, bySlug.Success)
	assert.Equal(t, fetched, bySlug.Data.(Hackathon))
}

func TestHackathonCreateGeneratesID(t *testing.T) {
	repo := newHackathonRepo(t)

	res := repo.Create(context.Background(), Hackathon{
		Title:       "No ID Given",
		Description: "desc",
	})
	require.True(t, res.Success)
	assert.NotEmpty(t, res.Data.(Hackathon).ID)
}

func TestHackathonValidation(t *testing.T) {
	repo := newHackathonRepo(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input Hackathon
	}{
		{name: "empty title", input: Hackathon{ID: "h1", Description: "desc"}},
		{name: "blank title", input: Hackathon{ID: "h1", Title: "   ", Description: "desc"}},
		{name: "empty description", input: Hackathon{ID: "h1", Title: "Title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := repo.Create(ctx, tt.input)
			require.False(t, res.Success)
			assert.Equal(t, CodeValidationFailed, res.Error.Code)
		})
	}
}

func TestHackathonSlugConflictEnvelope(t *testing.T) {
	repo := newHackathonRepo(t)
	ctx := context.Background()

	require.True(t, repo.Create(ctx, Hackathon{ID: "h1", Title: "Web3 Jam", Description: "d"}).Success)

	res := repo.Create(ctx, Hackathon{ID: "h2", Title: "Web3-Jam", Description: "d"})
	require.False(t, res.Success)
	assert.Equal(t, CodeSlugConflict, res.Error.Code)
}

func TestHackathonUpdateAndArchive(t *testing.T) {
	repo := newHackathonRepo(t)
	ctx := context.Background()

	require.True(t, repo.Create(ctx, Hackathon{ID: "h1", Title: "Web3 Jam", Description: "v1"}).Success)

	res := repo.Update(ctx, Hackathon{ID: "h1", Title: "Web3 Jam", Description: "v2"})
	require.True(t, res.Success)

	got := repo.Get(ctx, "h1")
	require.True(t, got.Success)
	assert.Equal(t, "v2", got.Data.(Hackathon).Description)

	archived := repo.Archive(ctx, "h1")
	require.True(t, archived.Success)

	gone := repo.Get(ctx, "h1")
	require.False(t, gone.Success)
	assert.Equal(t, CodeEntityNotFound, gone.Error.Code)
}

func TestHackathonUpdateMissing(t *testing.T) {
	repo := newHackathonRepo(t)

	res := repo.Update(context.Background(), Hackathon{ID: "ghost", Title: "T", Description: "d"})
	require.False(t, res.Success)
	assert.Equal(t, CodeEntityNotFound, res.Error.Code)
}

func TestHackathonListActive(t *testing.T) {
	repo := newHackathonRepo(t)
	ctx := context.Background()

	require.True(t, repo.Create(ctx, Hackathon{ID: "h1", Title: "One", Description: "d"}).Success)
	require.True(t, repo.Create(ctx, Hackathon{ID: "h2", Title: "Two", Description: "d"}).Success)
	require.True(t, repo.Archive(ctx, "h1").Success)

	res := repo.ListActive(ctx)
	require.True(t, res.Success)

	list := res.Data.([]Hackathon)
	require.Len(t, list, 1)
	assert.Equal(t, "h2", list[0].ID)
}

package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

func testSkill(source, id, name string, installs int64) domain.Skill {
	return domain.Skill{Source: source, SkillID: id, Name: name, Installs: installs, Technologies: []string{"go"}}
}

func TestSkillStore_SaveGet(t *testing.T) {
	store := NewSkillStore()
	ctx := context.Background()
	sk := testSkill("acme/skills", "a", "Alpha", 3)

	require.NoError(t, store.Save(ctx, sk))

	got, err := store.Get(ctx, sk.Key())
	require.NoError(t, err)
	assert.Equal(t, sk, *got)

	// Returned values are copies
	got.Technologies[0] = "rust"
	again, err := store.Get(ctx, sk.Key())
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again.Technologies)

	_, err = store.Get(ctx, domain.SkillKey{Source: "acme/skills", SkillID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSkillStore_ListOrdered(t *testing.T) {
	store := NewSkillStore(
		testSkill("zeta/skills", "a", "Z", 0),
		testSkill("acme/skills", "b", "B", 0),
		testSkill("acme/skills", "a", "A", 0),
	)

	skills, err := store.List(context.Background())
	require.NoError(t, err)

	keys := make([]string, 0, len(skills))
	for _, sk := range skills {
		keys = append(keys, sk.Key().String())
	}
	assert.Equal(t, []string{"acme/skills:a", "acme/skills:b", "zeta/skills:a"}, keys)
}

func TestSkillStore_SaveBatchAndCount(t *testing.T) {
	store := NewSkillStore()
	ctx := context.Background()

	require.NoError(t, store.SaveBatch(ctx, []domain.Skill{
		testSkill("acme/skills", "a", "A", 0),
		testSkill("acme/skills", "b", "B", 0),
		testSkill("acme/skills", "a", "A2", 0),
	}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := store.Get(ctx, domain.SkillKey{Source: "acme/skills", SkillID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
}

func TestSkillStore_Delete(t *testing.T) {
	sk := testSkill("acme/skills", "a", "A", 0)
	store := NewSkillStore(sk)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, sk.Key()))
	assert.ErrorIs(t, store.Delete(ctx, sk.Key()), domain.ErrNotFound)
}

func TestSkillStore_AddInstalls(t *testing.T) {
	sk := testSkill("acme/skills", "a", "A", 2)
	store := NewSkillStore(sk)
	ctx := context.Background()

	tests := []struct {
		name  string
		delta int64
		want  int64
	}{
		{name: "increment", delta: 1, want: 3},
		{name: "decrement", delta: -1, want: 2},
		{name: "floors at zero", delta: -10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.AddInstalls(ctx, sk.Key(), tt.delta))
			got, err := store.Get(ctx, sk.Key())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Installs)
		})
	}

	err := store.AddInstalls(ctx, domain.SkillKey{Source: "x", SkillID: "y"}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSkillStore_ConcurrentInstalls(t *testing.T) {
	sk := testSkill("acme/skills", "a", "A", 0)
	store := NewSkillStore(sk)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.AddInstalls(ctx, sk.Key(), 1))
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, sk.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Installs)
}

func TestSkillStore_Replace(t *testing.T) {
	store := NewSkillStore(testSkill("acme/skills", "a", "A", 0))
	ctx := context.Background()

	store.Replace([]domain.Skill{
		testSkill("acme/skills", "b", "B", 0),
		testSkill("acme/skills", "c", "C", 0),
	})

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.Get(ctx, domain.SkillKey{Source: "acme/skills", SkillID: "a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

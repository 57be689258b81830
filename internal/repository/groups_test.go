package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateGroup("Engenharia Naval", "", 3))

	groups, err := repo.GroupsBySlug()
	require.NoError(t, err)
	g, ok := groups["engenharia-naval"]
	require.True(t, ok)
	// Blank label falls back to the normalized slug.
	require.Equal(t, "engenharia-naval", g.Label)
	require.Equal(t, 3, g.Order)
	require.Equal(t, 0, g.SubgroupCount)

	require.ErrorIs(t, repo.CreateGroup("   ", "x", 1), ErrInvalidArgument)
}

func TestCreateGroupDuplicateLabelCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.CreateGroup("engenharia", "Engenharia", 1))
	err := repo.CreateGroup("engenharia-2", "ENGENHARIA", 2)
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateGroupRenameInPlace(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("operacoes", "Operações", 4))

	out, err := repo.UpdateGroup("operacoes", "logistica", "Logística", 7)
	require.NoError(t, err)
	require.False(t, out.Merged)

	groups, err := repo.GroupsBySlug()
	require.NoError(t, err)
	require.NotContains(t, groups, "operacoes")
	g := groups["logistica"]
	require.Equal(t, "Logística", g.Label)
	require.Equal(t, 7, g.Order)
}

func TestUpdateGroupMergesOnSlugCollision(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.CreateGroup("bravo", "Bravo", 2))
	require.NoError(t, repo.UpsertSection("sec-um", "Um", "", "alpha", 1))
	require.NoError(t, repo.UpsertSection("sec-dois", "Dois", "", "alpha", 2))

	out, err := repo.UpdateGroup("alpha", "bravo", "Bravo Unificado", 9)
	require.NoError(t, err)
	require.True(t, out.Merged)

	groups, err := repo.GroupsBySlug()
	require.NoError(t, err)
	require.NotContains(t, groups, "alpha")
	g, ok := groups["bravo"]
	require.True(t, ok)
	require.Equal(t, "Bravo Unificado", g.Label)
	require.Equal(t, 9, g.Order)
	require.Equal(t, 2, g.SubgroupCount)

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.Equal(t, "bravo", sections["sec-um"].GroupSlug)
	require.Equal(t, "bravo", sections["sec-dois"].GroupSlug)
	// Denormalized label cache follows the surviving group.
	require.Equal(t, "Bravo Unificado", sections["sec-um"].GroupLabel)
}

func TestUpdateGroupNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpdateGroup("nope", "also-nope", "X", 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UpdateGroup("", "x", "X", 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeleteGroupBlockedBySections(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec-um", "Um", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("sec-um", "Card A")))

	_, err := repo.DeleteGroup("alpha")
	require.ErrorIs(t, err, ErrConflict)

	// Nothing was touched.
	groups, err := repo.GroupsBySlug()
	require.NoError(t, err)
	require.Contains(t, groups, "alpha")
	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.Contains(t, sections, "sec-um")
	cards, err := repo.CardsForSection("sec-um")
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestDeleteGroupRemovesChildless(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("vazio", "Vazio", 1))

	n, err := repo.DeleteGroup("vazio")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.DeleteGroup("vazio")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestCountSectionsForGroup(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("s1", "S1", "", "alpha", 1))
	require.NoError(t, repo.UpsertSection("s2", "S2", "", "alpha", 2))

	n, err := repo.CountSectionsForGroup("alpha")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = repo.CountSectionsForGroup("missing")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

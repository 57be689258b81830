package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertSectionResolvesGroupBySlugThenLabel(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("engenharia", "Engenharia", 1))

	// By slug.
	require.NoError(t, repo.UpsertSection("backend", "Backend", "APIs", "engenharia", 1))
	// By label, case-insensitively.
	require.NoError(t, repo.UpsertSection("frontend", "Frontend", "", "ENGENHARIA", 2))

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.Equal(t, "engenharia", sections["backend"].GroupSlug)
	require.Equal(t, "Engenharia", sections["backend"].GroupLabel)
	require.Equal(t, "engenharia", sections["frontend"].GroupSlug)
}

func TestUpsertSectionUnresolvableGroup(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpsertSection("orfao", "Órfão", "", "grupo-fantasma", 1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	err = repo.UpsertSection("", "Sem slug", "", "geral", 1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpsertSectionUpdatesOnConflict(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.CreateGroup("bravo", "Bravo", 2))

	require.NoError(t, repo.UpsertSection("sec", "Original", "desc", "alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Atualizado", "nova desc", "bravo", 5))

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	s := sections["sec"]
	require.Equal(t, "Atualizado", s.Label)
	require.Equal(t, "nova desc", s.Description)
	require.Equal(t, "bravo", s.GroupSlug)
	require.Equal(t, "Bravo", s.GroupLabel)
	require.Equal(t, 5, s.Order)
}

func TestRenameSectionRepointsCards(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("antigo", "Antigo", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("antigo", "Card A")))
	require.NoError(t, repo.CreateCard(cardFor("antigo", "Card B")))

	require.NoError(t, repo.RenameSection("antigo", "novo", "Novo", "renomeado", "alpha", 3))

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.NotContains(t, sections, "antigo")
	s, ok := sections["novo"]
	require.True(t, ok)
	require.Equal(t, "Novo", s.Label)
	require.Equal(t, "renomeado", s.Description)
	require.Equal(t, 3, s.Order)

	moved, err := repo.CardsForSection("novo")
	require.NoError(t, err)
	require.Len(t, moved, 2)
	left, err := repo.CardsForSection("antigo")
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestRenameSectionSameSlugDegradesToUpsert(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Antes", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("sec", "Card A")))

	require.NoError(t, repo.RenameSection("sec", "sec", "Depois", "", "alpha", 2))

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.Equal(t, "Depois", sections["sec"].Label)

	cards, err := repo.CardsForSection("sec")
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestDeleteSectionBlockedByCards(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("sec", "Card A")))

	err := repo.DeleteSection("sec")
	require.ErrorIs(t, err, ErrConflict)

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.Contains(t, sections, "sec")
	cards, err := repo.CardsForSection("sec")
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestDeleteSectionRemovesChildless(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))

	require.NoError(t, repo.DeleteSection("sec"))

	sections, err := repo.SectionsBySlug()
	require.NoError(t, err)
	require.NotContains(t, sections, "sec")
}

func TestListSectionsOrdering(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("zz-primeiro", "AA Primeiro", 1))
	require.NoError(t, repo.CreateGroup("aa-segundo", "ZZ Segundo", 2))
	require.NoError(t, repo.UpsertSection("s-b", "B", "", "zz-primeiro", 2))
	require.NoError(t, repo.UpsertSection("s-a", "A", "", "zz-primeiro", 1))
	require.NoError(t, repo.UpsertSection("s-c", "C", "", "aa-segundo", 1))

	sections, err := repo.ListSections()
	require.NoError(t, err)

	var slugs []string
	for _, s := range sections {
		if s.GroupSlug == "zz-primeiro" || s.GroupSlug == "aa-segundo" {
			slugs = append(slugs, s.Slug)
		}
	}
	// Group sort_order first, then section sort_order within the group.
	require.Equal(t, []string{"s-a", "s-b", "s-c"}, slugs)
}

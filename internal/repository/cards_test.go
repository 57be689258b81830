package repository

import (
	"testing"

	"github.com/luciolemos/itapiru-srv798468/internal/models"

	"github.com/stretchr/testify/require"
)

func cardFor(sectionSlug, title string) models.CardInput {
	return models.CardInput{
		SectionSlug: sectionSlug,
		Title:       title,
		Href:        "/x",
		Status:      "Interno",
		Order:       1,
	}
}

func TestCreateCardAppliesDefaults(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("engenharia", "Engenharia", 1))
	require.NoError(t, repo.UpsertSection("backend", "Backend", "", "engenharia", 1))

	require.NoError(t, repo.CreateCard(models.CardInput{
		SectionSlug: "backend",
		Title:       "API",
		Href:        "https://api.example.com",
		External:    true,
		Order:       1,
	}))

	cards, err := repo.CardsForSection("backend")
	require.NoError(t, err)
	require.Len(t, cards, 1)

	c := cards[0]
	require.Equal(t, "API", c.Title)
	require.Equal(t, "https://api.example.com", c.Href)
	require.True(t, c.External)
	require.Equal(t, "bi-globe2", c.Icon)
	require.Equal(t, "Interno", c.Status)
	require.Equal(t, "engenharia", c.GroupSlug)
	require.Equal(t, "Engenharia", c.GroupLabel)
	require.Equal(t, "Backend", c.SectionLabel)
}

func TestCreateCardIconNormalization(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))

	in := cardFor("sec", "Emoji")
	in.Icon = "🌐"
	require.NoError(t, repo.CreateCard(in))

	in = cardFor("sec", "Font")
	in.Icon = "bi-star"
	require.NoError(t, repo.CreateCard(in))

	cards, err := repo.CardsForSection("sec")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, "bi-globe2", cards[0].Icon)
	require.Equal(t, "bi-star", cards[1].Icon)
}

func TestCreateCardSubgroupSlugWins(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("certo", "Certo", "", "alpha", 1))
	require.NoError(t, repo.UpsertSection("errado", "Errado", "", "alpha", 2))

	in := cardFor("errado", "Card")
	in.SubgroupSlug = "  CERTO  "
	require.NoError(t, repo.CreateCard(in))

	cards, err := repo.CardsForSection("certo")
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestCreateCardUnknownSection(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateCard(cardFor("fantasma", "Card"))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateCardBlankSectionDefaults(t *testing.T) {
	// The seed creates the 'geral' section, so a card without any section
	// reference lands there.
	repo := newTestRepo(t)

	in := cardFor("", "Sem seção")
	require.NoError(t, repo.CreateCard(in))

	cards, err := repo.CardsForSection("geral")
	require.NoError(t, err)
	var titles []string
	for _, c := range cards {
		titles = append(titles, c.Title)
	}
	require.Contains(t, titles, "Sem seção")
}

func TestUpdateCard(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("sec", "Antes")))

	cards, err := repo.CardsForSection("sec")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	id := cards[0].ID

	in := cardFor("sec", "Depois")
	in.Href = ""
	in.Status = "  "
	in.Metric = "99%"
	require.NoError(t, repo.UpdateCard(id, in))

	cards, err = repo.CardsForSection("sec")
	require.NoError(t, err)
	c := cards[0]
	require.Equal(t, "Depois", c.Title)
	require.Equal(t, "#", c.Href)
	require.Equal(t, "Interno", c.Status)
	require.Equal(t, "99%", c.Metric)

	require.ErrorIs(t, repo.UpdateCard(999999, cardFor("sec", "X")), ErrNotFound)
}

func TestDeleteCard(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))
	require.NoError(t, repo.CreateCard(cardFor("sec", "Card")))

	cards, err := repo.CardsForSection("sec")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCard(cards[0].ID))

	cards, err = repo.CardsForSection("sec")
	require.NoError(t, err)
	require.Empty(t, cards)

	// Deleting an unknown id is a no-op.
	require.NoError(t, repo.DeleteCard(424242))
}

func TestCardsBySectionOrdering(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.CreateGroup("alpha", "Alpha", 1))
	require.NoError(t, repo.UpsertSection("sec", "Sec", "", "alpha", 1))

	first := cardFor("sec", "Primeiro")
	first.Order = 2
	second := cardFor("sec", "Segundo")
	second.Order = 1
	require.NoError(t, repo.CreateCard(first))
	require.NoError(t, repo.CreateCard(second))

	bySection, err := repo.CardsBySection()
	require.NoError(t, err)
	cards := bySection["sec"]
	require.Len(t, cards, 2)
	require.Equal(t, "Segundo", cards[0].Title)
	require.Equal(t, "Primeiro", cards[1].Title)
}

func TestListAllCardsJoinsLabels(t *testing.T) {
	repo := newTestRepo(t)

	cards, err := repo.ListAllCards()
	require.NoError(t, err)
	require.NotEmpty(t, cards)
	for _, c := range cards {
		require.NotEmpty(t, c.GroupSlug)
		require.NotEmpty(t, c.GroupLabel)
		require.NotEmpty(t, c.SectionLabel)
	}
}

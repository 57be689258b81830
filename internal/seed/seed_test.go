package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, s.Title)
	require.NotEmpty(t, s.Sections)
	require.NotEmpty(t, s.Cards)

	for _, sec := range s.Sections {
		require.NotEmpty(t, sec.Slug)
		require.NotEmpty(t, sec.Label)
	}
	for slug, cards := range s.Cards {
		require.NotEmpty(t, slug)
		for _, c := range cards {
			require.NotEmpty(t, c.Title)
		}
	}
}

func TestLoadMissingPathFallsBack(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, s.Sections)
}

func TestLoadCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	custom := `
title: "Custom"
subtitle: "Custom sub"
sections:
  - slug: unico
    label: "Único"
    group: "Geral"
    order: 1
cards_by_section:
  unico:
    - title: "Card"
      href: "/card"
      order: 1
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Custom", s.Title)
	require.Len(t, s.Sections, 1)
	require.Equal(t, "unico", s.Sections[0].Slug)
	require.Len(t, s.Cards["unico"], 1)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [unbalanced"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in       string
		fallback string
		want     string
	}{
		{"Engenharia", "", "engenharia"},
		{"  Setor de Pessoal  ", "", "setor-de-pessoal"},
		{"Água & Luz", "", "gua-luz"},
		{"a--b---c", "", "a-b-c"},
		{"--geral--", "", "geral"},
		{"***", "geral", "geral"},
		{"", "geral", "geral"},
		{"ALREADY-KEBAB", "", "already-kebab"},
	}

	for _, tc := range cases {
		got := NormalizeSlug(tc.in, tc.fallback)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeSlugIdempotent(t *testing.T) {
	inputs := []string{"Engenharia", "Setor de Pessoal", "a--b---c", "🌐 seção", "ok-ja-normalizado"}
	for _, in := range inputs {
		once := NormalizeSlug(in, "geral")
		twice := NormalizeSlug(once, "geral")
		require.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizeIcon(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"🌐", "bi-globe2"},
		{"📌", "bi-pin-angle"},
		{"⚓", "bi-life-preserver"},
		{"✈️", "bi-airplane"},
		{"🛡️", "bi-shield"},
		{"🎖️", "bi-award"},
		{"bi-star", "bi-star"},
		{"", "bi-globe2"},
		{"  ", "bi-globe2"},
		{"anything-else", "anything-else"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, normalizeIcon(tc.in), "input %q", tc.in)
	}
}

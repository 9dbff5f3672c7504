package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Nancy Pelosi", want: "nancy pelosi"},
		{name: "accented", input: "Nydia Velázquez", want: "nydia velazquez"},
		{name: "whitespace runs", input: "  Ted \t Lieu  ", want: "ted lieu"},
		{name: "punctuation", input: "Rep. Smith, Jr.", want: "rep smith jr"},
		{name: "stroked letters", input: "Bjørn Ødegaard", want: "bjorn odegaard"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FoldName(tc.input))
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Raul Grijalva", StripDiacritics("Raúl Grijalva"))
}

func TestNameTokens_DropsHonorifics(t *testing.T) {
	assert.Equal(t, []string{"maria", "salazar"}, NameTokens("Rep. Maria Salazar"))
	assert.Equal(t, []string{"john", "james"}, NameTokens("Congressman John James"))
}

func TestFirstAndLastToken(t *testing.T) {
	assert.Equal(t, "sheila", FirstToken("Sheila Cherfilus-McCormick"))
	assert.Equal(t, "cherfilus-mccormick", LastToken("Sheila Cherfilus-McCormick"))

	// Generational suffixes are not last names.
	assert.Equal(t, "carter", LastToken("Troy Carter Jr."))

	assert.Equal(t, "", FirstToken("   "))
	assert.Equal(t, "", LastToken(""))
}

func TestLooseContains(t *testing.T) {
	assert.True(t, LooseContains("Nancy Pelosi", "Pelosi"))
	assert.True(t, LooseContains("Velazquez", "Nydia Velázquez"))
	assert.True(t, LooseContains("nancy  pelosi", "NANCY PELOSI"))
	assert.False(t, LooseContains("Nancy Pelosi", "Brad Sherman"))
	assert.False(t, LooseContains("", "Pelosi"))
}

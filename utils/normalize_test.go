package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldText(t *testing.T) {
	cases := map[string]string{
		"Sí":       "si",
		"  MENÚ  ": "menu",
		"Cabaña":   "cabana",
		"pequeña":  "pequena",
		"ACEPTO":   "acepto",
		"ya pagué": "ya pague",
		"":         "",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, FoldText(input), "input %q", input)
	}
}

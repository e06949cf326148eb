package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Helped a younger student", "Helped a younger student"},
		{"tags stripped", "<b>Milo</b> Finch", "Milo Finch"},
		{"script removed", `<script>alert("x")</script>Finch`, "Finch"},
		{"whitespace trimmed", "  Milo  ", "Milo"},
		{"empty stays empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Text(tc.input))
		})
	}
}

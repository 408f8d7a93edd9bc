package envfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/opsync/internal/envfile"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "plain pairs",
			text: "A=1\nB=2\n",
			want: map[string]string{"A": "1", "B": "2"},
		},
		{
			name: "comments and blank lines ignored",
			text: "# database\nDATABASE_URL=postgres://localhost/app\n\n# api\nAPI_KEY=abc\n",
			want: map[string]string{
				"DATABASE_URL": "postgres://localhost/app",
				"API_KEY":      "abc",
			},
		},
		{
			name: "quoted values",
			text: `GREETING="hello world"` + "\n" + `SINGLE='quoted too'` + "\n",
			want: map[string]string{"GREETING": "hello world", "SINGLE": "quoted too"},
		},
		{
			name: "empty value preserved",
			text: "A=1\nB=\n",
			want: map[string]string{"A": "1", "B": ""},
		},
		{
			name: "value containing equals sign",
			text: "CONN=host=db;port=5432\n",
			want: map[string]string{"CONN": "host=db;port=5432"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := envfile.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_RawTextRoundTrip(t *testing.T) {
	t.Parallel()

	// Local files are written as raw text, so parsing the written
	// bytes must recover the same pairs as parsing the source text.
	text := "# secrets\nA=1\nB=\"two words\"\n\nC=\n"

	direct, err := envfile.Parse(text)
	require.NoError(t, err)

	reparsed, err := envfile.Parse(string([]byte(text)))
	require.NoError(t, err)

	assert.Equal(t, direct, reparsed)
}

package runtime

import (
	"arena-lab/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word, with CRLF endings and blank lines
	fsys := fstest.MapFS{
		"censored/en.txt":    {Data: []byte("Noob\r\ncheater\n\n")},
		"censored/fr.txt":    {Data: []byte("nul\nnoob\n")},
		"censored/README.md": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("censored")

	// Then words are lowercased, merged and sorted
	req.NoError(err)
	req.Equal([]string{"cheater", "noob", "nul"}, data.Words)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_EmptyDictionaries(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{"censored/en.txt": {Data: []byte("\n  \n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestCensoredLoader_EmbeddedLists(t *testing.T) {
	req := require.New(t)

	data, err := NewCensoredLoader(censoredFolder).LoadAll("censored")

	req.NoError(err)
	req.Contains(data.Words, "noob")
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
}

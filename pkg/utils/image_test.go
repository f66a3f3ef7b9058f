package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURLRoundTrip(t *testing.T) {
	url := EncodeDataURL("image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "data:image/png;base64,iVBORw==", url)

	mime, data, err := ParseImageDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestParseImageDataURL_Errors(t *testing.T) {
	_, _, err := ParseImageDataURL("https://cdn.example.com/a.png")
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, _, err = ParseImageDataURL("data:image/png,rawbytes")
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, _, err = ParseImageDataURL("data:text/plain;base64,aGk=")
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = ParseImageDataURL("data:image/png;base64,***")
	assert.Error(t, err)
}

package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_PNGDelTamanoPedido(t *testing.T) {
	data, err := NewEncoder(200).Encode("10000042")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestEncode_TamanoInsuficiente(t *testing.T) {
	_, err := NewEncoder(5).Encode("10000042")
	assert.Error(t, err)
}

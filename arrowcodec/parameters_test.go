package arrowcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZuInnoTe/ZuStDPipe/arrowcodec"
)

func TestEncodeDecodeRoundTripsOrder(t *testing.T) {
	params := []arrowcodec.Param{
		{Key: "path", Value: "/tmp/in.csv"},
		{Key: "delimiter", Value: ","},
		{Key: "header", Value: "true"},
	}

	encoded, err := arrowcodec.EncodeParameters(params)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)

	decoded, err := arrowcodec.DecodeParameters(encoded)
	require.NoError(t, err)
	require.Equal(t, params, decoded)
}

func TestEncodeDecodeEmptyParameters(t *testing.T) {
	encoded, err := arrowcodec.EncodeParameters(nil)
	require.NoError(t, err)

	decoded, err := arrowcodec.DecodeParameters(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := arrowcodec.DecodeParameters([]byte("not an arrow stream"))
	assert.Error(t, err)
}

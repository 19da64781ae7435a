package net

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripUncompressed(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0x01, 0x02, 0x03}

	require.NoError(t, WriteFrame(&buf, payload, 0))
	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameRoundTripCompressed(t *testing.T) {
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte("chunkchunk"), 200)

	require.NoError(t, WriteFrame(&buf, payload, 64))
	assert.Less(t, buf.Len(), len(payload), "repetitive payload must shrink on the wire")

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestIncompressiblePayloadStaysRaw(t *testing.T) {
	var buf bytes.Buffer
	// Three bytes cannot deflate smaller; the frame must fall back to raw.
	payload := []byte{0xde, 0xad, 0xbe}

	require.NoError(t, WriteFrame(&buf, payload, 1))
	assert.Equal(t, byte(0), buf.Bytes()[2], "flags byte must not mark deflate")

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameRejectsBadLength(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x02, 0x00, 0x00}))
	assert.Error(t, err)
}

func TestReadFrameShortPayload(t *testing.T) {
	// Header claims 10 bytes of payload but only 2 follow.
	_, err := ReadFrame(bytes.NewReader([]byte{0x0d, 0x00, 0x00, 0x01, 0x02}))
	assert.Error(t, err)
}

package net

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Wire format: [2 bytes LE: total length including header][1 byte flags]
// [payload]. With flagDeflate set the payload is DEFLATE-compressed.
const (
	frameHeaderLen = 3
	maxPayloadLen  = 65535 - frameHeaderLen

	flagDeflate byte = 0x01

	// Decompressed frames are capped so a malicious peer cannot blow up
	// memory with a tiny highly-compressed frame.
	maxInflatedLen = 1 << 20
)

// ReadFrame reads one frame from r and returns the decoded payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:2]))
	payloadLen := totalLen - frameHeaderLen
	if payloadLen <= 0 {
		return nil, fmt.Errorf("invalid frame length: %d", totalLen)
	}
	flags := header[2]

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", payloadLen, err)
	}

	if flags&flagDeflate == 0 {
		return payload, nil
	}

	fr := flate.NewReader(bytes.NewReader(payload))
	defer fr.Close()
	inflated, err := io.ReadAll(io.LimitReader(fr, maxInflatedLen+1))
	if err != nil {
		return nil, fmt.Errorf("inflate frame: %w", err)
	}
	if len(inflated) > maxInflatedLen {
		return nil, fmt.Errorf("inflated frame exceeds %d bytes", maxInflatedLen)
	}
	return inflated, nil
}

// WriteFrame writes one frame to w. Payloads of at least compressThreshold
// bytes are DEFLATE-compressed when that actually shrinks them;
// compressThreshold <= 0 disables compression.
func WriteFrame(w io.Writer, data []byte, compressThreshold int) error {
	payload := data
	var flags byte

	if compressThreshold > 0 && len(data) >= compressThreshold {
		if deflated, ok := deflate(data); ok {
			payload = deflated
			flags = flagDeflate
		}
	}
	if len(payload) > maxPayloadLen {
		return fmt.Errorf("frame payload too large: %d", len(payload))
	}

	var header [frameHeaderLen]byte
	binary.LittleEndian.PutUint16(header[:2], uint16(len(payload)+frameHeaderLen))
	header[2] = flags

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// deflate compresses data, reporting false when compression does not help.
func deflate(data []byte) ([]byte, bool) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, false
	}
	if _, err := fw.Write(data); err != nil {
		return nil, false
	}
	if err := fw.Close(); err != nil {
		return nil, false
	}
	if buf.Len() >= len(data) {
		return nil, false
	}
	return buf.Bytes(), true
}

package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GenerateGiftCardQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateGiftCardQR("GFT4H7K9M2P5R8WX")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GenerateGiftCardQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, "M")

			qrBytes, err := service.GenerateGiftCardQR("GFT4H7K9M2P5R8WX")
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_ParseGiftCardQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	// Create valid QR data
	data := QRCodeData{
		Code: "GFT4H7K9M2P5R8WX",
		Type: "gift_card",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	// Parse the QR data
	parsedCode, err := service.ParseGiftCardQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, "GFT4H7K9M2P5R8WX", parsedCode)
}

func TestQRCodeService_ParseGiftCardQR_InvalidJSON(t *testing.T) {
	service := NewQRCodeService(256, "M")

	_, err := service.ParseGiftCardQR("invalid json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal QR code data")
}

func TestQRCodeService_ParseGiftCardQR_InvalidType(t *testing.T) {
	service := NewQRCodeService(256, "M")

	// Create QR data with invalid type
	data := QRCodeData{
		Code: "GFT4H7K9M2P5R8WX",
		Type: "invalid_type",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseGiftCardQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestQRCodeService_ParseGiftCardQR_MissingCode(t *testing.T) {
	service := NewQRCodeService(256, "M")

	data := QRCodeData{
		Code: "",
		Type: "gift_card",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseGiftCardQR(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no gift card code")
}

func TestQRCodeService_RoundTrip(t *testing.T) {
	service := NewQRCodeService(256, "M")
	originalCode := "GFTAB12CD34EF56G"

	// Generate QR code
	qrBytes, err := service.GenerateGiftCardQR(originalCode)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Note: We can't directly parse the PNG bytes back to JSON
	// In real usage, the QR code would be scanned by a device
	// and the JSON string would be extracted
	// For testing, we verify the data structure manually
	data := QRCodeData{
		Code: originalCode,
		Type: "gift_card",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	parsedCode, err := service.ParseGiftCardQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, originalCode, parsedCode)
}

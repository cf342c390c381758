package qrcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProvisioningURI = "otpauth://totp/CineVault:user@example.com?secret=JBSWY3DPEHPK3PXP&issuer=CineVault"

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

func TestQRCodeService_GenerateProvisioningQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateProvisioningQR(sampleProvisioningURI)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GenerateProvisioningQR_DifferentSizes(t *testing.T) {
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

			qrBytes, err := service.GenerateProvisioningQR(sampleProvisioningURI)
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_GenerateProvisioningQR_RejectsOtherURIs(t *testing.T) {
	service := NewQRCodeService(256, "M")

	// Only otpauth:// URIs are ever encoded; anything else is a caller bug.
	_, err := service.GenerateProvisioningQR("https://example.com/phishing")
	assert.Error(t, err)

	_, err = service.GenerateProvisioningQR("")
	assert.Error(t, err)
}

package service

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GenerateGiftCardQR renders a gift card code as a PNG QR code for
	// display and email delivery.
	GenerateGiftCardQR(code string) ([]byte, error)
	// ParseGiftCardQR extracts the gift card code from scanned QR payload.
	ParseGiftCardQR(qrData string) (string, error)
}

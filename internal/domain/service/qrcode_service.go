package service

// QRCodeService defines the interface for QR code generation.
type QRCodeService interface {
	// GenerateProfileQR generates a PNG QR code encoding the public profile
	// URL of the given account.
	GenerateProfileQR(accountID int64) ([]byte, error)
}

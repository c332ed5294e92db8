// Package qrcode implements QR code generation for profile links.
package qrcode

import (
	"fmt"
	"strings"

	"usermap/config"
	"usermap/internal/domain/service"
	"usermap/internal/errors"

	qrcodelib "github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size          int
	recoveryLevel qrcodelib.RecoveryLevel
	baseURL       string
}

// NewQRCodeService creates a QR code service from configuration.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	qrCfg := cfg.QRCode

	return &qrcodeService{
		size:          qrCfg.Size,
		recoveryLevel: parseRecoveryLevel(qrCfg.ErrorCorrectionLevel),
		baseURL:       strings.TrimRight(qrCfg.BaseURL, "/"),
	}
}

func (s *qrcodeService) GenerateProfileQR(accountID int64) ([]byte, error) {
	profileURL := fmt.Sprintf("%s/profile/%d", s.baseURL, accountID)

	png, err := qrcodelib.Encode(profileURL, s.recoveryLevel, s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode profile QR code")
	}

	return png, nil
}

func parseRecoveryLevel(level string) qrcodelib.RecoveryLevel {
	switch strings.ToLower(level) {
	case "low":
		return qrcodelib.Low
	case "high":
		return qrcodelib.High
	case "highest":
		return qrcodelib.Highest
	default:
		return qrcodelib.Medium
	}
}

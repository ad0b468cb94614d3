package utils

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
)

const qrDir = "uploads/qr"

// ReferralLink builds the landing URL encoded into referral QR codes.
func ReferralLink(couponCode string) string {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/ref/scan?code=%s", baseURL, couponCode)
}

// GenerateReferralQR renders a patient's referral link as a 300x300 PNG
// under uploads/qr and returns the file name, which the client fetches
// from the /qr/ static route.
func GenerateReferralQR(couponCode string) (string, error) {
	code, err := qr.Encode(ReferralLink(couponCode), qr.M, qr.Auto)
	if err != nil {
		return "", err
	}

	code, err = barcode.Scale(code, 300, 300)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(qrDir, 0755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ".png"
	file, err := os.Create(filepath.Join(qrDir, filename))
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := png.Encode(file, code); err != nil {
		return "", err
	}

	return filename, nil
}

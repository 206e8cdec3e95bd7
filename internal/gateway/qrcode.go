package gateway

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

// renderQR produces a base64 PNG data URI for the copia-e-cola payload,
// used when the vendor does not supply its own image.
func renderQR(pixCopiaECola string) string {
	if pixCopiaECola == "" {
		return ""
	}
	png, err := qrcode.Encode(pixCopiaECola, qrcode.Medium, 256)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// ensureImage fills the QR image from the copia-e-cola when missing.
func ensureImage(c Charge) Charge {
	if c.ImagemQrcode == "" {
		c.ImagemQrcode = renderQR(c.PixCopiaECola)
	}
	return c
}

package utils

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// InviteLink is the deep link that carries the inviter id to /start.
func InviteLink(botName string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=ref_%d", botName, userID)
}

// WriteInviteQR renders the user's invite link as a QR image and returns
// the file path. The caller removes the file after sending it.
func WriteInviteQR(botName string, userID int64) (string, error) {
	filename := fmt.Sprintf("invite-%d.png", userID)
	if err := qrcode.WriteFile(InviteLink(botName, userID), qrcode.Medium, 256, filename); err != nil {
		return "", err
	}
	return filename, nil
}

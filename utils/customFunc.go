package utils

import (
	"crypto/rand"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func GenerateUniqueCode() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}

var printer = message.NewPrinter(language.Vietnamese)

// FormatNumber renders n with Vietnamese digit grouping for chat replies.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

func GetGreeting() string {
	hour := time.Now().Hour()
	switch {
	case hour >= 5 && hour < 11:
		return "Chào buổi sáng"
	case hour >= 11 && hour < 15:
		return "Chào buổi trưa"
	case hour >= 15 && hour < 18:
		return "Chào buổi chiều"
	default:
		return "Chào buổi tối"
	}
}

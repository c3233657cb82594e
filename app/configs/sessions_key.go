package configs

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/gorilla/securecookie"
)

// GenerateSecret returns a URL-safe random string suitable for JWT_SECRET.
func GenerateSecret(length int) (string, error) {
	key := securecookie.GenerateRandomKey(length)
	if key == nil {
		return "", fmt.Errorf("could not generate a %d byte key", length)
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}

func GenerateAndPrintSecret(w io.Writer) error {
	secret, err := GenerateSecret(48)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "================================================")
	fmt.Fprintf(w, "JWT_SECRET=%s\n", secret)
	fmt.Fprintln(w, "================================================")
	fmt.Fprintln(w, "Copy this line into your .env file. Rotating it invalidates every issued token.")
	return nil
}

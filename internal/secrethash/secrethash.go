// Package secrethash computes the SECRET_HASH value Cognito requires from
// app clients that were created with a client secret.
package secrethash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

var ErrEmptySecret = errors.New("client secret is empty")

// Calculate returns Base64(HMAC-SHA256(clientSecret, username+clientID)).
func Calculate(clientID, clientSecret, username string) (string, error) {
	if clientSecret == "" {
		return "", ErrEmptySecret
	}
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

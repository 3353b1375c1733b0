package dto

import "strings"

// SaveCredentialsRequest payload. Empty fields are accepted.
type SaveCredentialsRequest struct {
	BaseURL     string `json:"baseUrl"`
	BearerToken string `json:"bearerToken"`
}

// CredentialsResponse never exposes the full bearer token.
type CredentialsResponse struct {
	BaseURL     string `json:"baseUrl"`
	BearerToken string `json:"bearerToken"`
	Stored      bool   `json:"stored"`
	Configured  bool   `json:"configured"`
}

// MaskToken keeps the last four characters of token.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

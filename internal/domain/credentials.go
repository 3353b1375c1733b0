package domain

// Credentials locate and authorize the remote ticketing system.
type Credentials struct {
	BaseURL     string `json:"baseUrl"`
	BearerToken string `json:"bearerToken"`
}

// Complete reports whether both fields are set. Partial credentials count as
// unconfigured.
func (c Credentials) Complete() bool {
	return c.BaseURL != "" && c.BearerToken != ""
}

package models

// Identity is one provider link on an Auth0 account.
type Identity struct {
	Provider   string `json:"provider"`
	Connection string `json:"connection"`
	UserID     string `json:"user_id"`
	IsSocial   bool   `json:"isSocial"`
}

// Account is a user record returned by the Auth0 Management API search.
// Fields the API may omit are pointers so that "absent" and "empty" stay distinct.
type Account struct {
	UserID      string     `json:"user_id"`
	Email       *string    `json:"email,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Nickname    *string    `json:"nickname,omitempty"`
	Username    *string    `json:"username,omitempty"`
	Identities  []Identity `json:"identities,omitempty"`
	CreatedAt   *string    `json:"created_at,omitempty"`
	LastLogin   *string    `json:"last_login,omitempty"`
	LoginsCount *float64   `json:"logins_count,omitempty"`
}

// DisplayName returns name, falling back to nickname and then username.
func (a *Account) DisplayName() *string {
	for _, candidate := range []*string{a.Name, a.Nickname, a.Username} {
		if candidate != nil && *candidate != "" {
			return candidate
		}
	}
	return nil
}

// Providers returns the provider of every identity link, in link order.
func (a *Account) Providers() []string {
	providers := make([]string, 0, len(a.Identities))
	for _, identity := range a.Identities {
		providers = append(providers, identity.Provider)
	}
	return providers
}

// Connections returns the connection of every identity link, in link order.
func (a *Account) Connections() []string {
	connections := make([]string, 0, len(a.Identities))
	for _, identity := range a.Identities {
		connections = append(connections, identity.Connection)
	}
	return connections
}

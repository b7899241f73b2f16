package types

// Identity is the resolved claim set handed over by the identity provider
// after sign-in. Sub is the opaque subject identifier used to partition
// note storage; everything else is display-only.
type Identity struct {
	Sub           string `json:"sub"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

func (i Identity) IsSet() bool {
	return i.Sub != ""
}

// DisplayName picks the friendliest non-empty field for the header.
func (i Identity) DisplayName() string {
	if i.GivenName != "" {
		return i.GivenName
	}
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return "User"
}

package domain

// GrantType is the fixed label attached to every issued token pair.
const GrantType = "bearer"

// TokenPair is the access/refresh bundle returned on successful
// authentication. All four token fields are always populated together;
// a partial pair is never emitted.
type TokenPair struct {
	GrantType             string `json:"grantType"`
	AccessToken           string `json:"accessToken"`
	AccessTokenExpiresIn  int64  `json:"accessTokenExpiresIn"`
	RefreshToken          string `json:"refreshToken"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn"`
}

// ProvisionalProfile carries the fields inferred from a third-party identity
// when no local account is linked yet. It prefills the registration step and
// is never persisted by this core.
type ProvisionalProfile struct {
	Name string `json:"name"`
	// Gender is 0 for female, 1 for male, 2 when the provider did not
	// disclose it.
	Gender   int         `json:"gender"`
	Email    *string     `json:"email"`
	Password string      `json:"password"`
	PhoneNum *string     `json:"phoneNum,omitempty"`
	Origin   LoginOrigin `json:"loginType"`
}

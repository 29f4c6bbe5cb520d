package schemas

// CredentialsSchema struct
type CredentialsSchema struct {
	Username string `validate:"required,max=30"`
	Password string `validate:"required,max=72"`
}

// RefreshTokenSchema struct
type RefreshTokenSchema struct {
	Token    string `validate:"required"`
	ExpireAt int64  `validate:"required"`
}

// TokensSchema struct
type TokensSchema struct {
	RefreshToken RefreshTokenSchema
	AccessToken  string
}

// RestoreSchema struct
type RestoreSchema struct {
	SessionID    string `validate:"required"`
	RefreshToken string `validate:"required"`
}

// SessionSchema is what a successful register, login or restore returns
type SessionSchema struct {
	SessionID string
	Username  string
	Tokens    TokensSchema
}

// AuthResponseSchema struct
type AuthResponseSchema struct {
	Session SessionSchema
	User    UserInfoSchema
}

// SessionRecord is the stored half of a refresh token
type SessionRecord struct {
	Token    string
	Username string
	ExpireAt int64
}

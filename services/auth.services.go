package services

import (
	"context"
	"strings"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
	"robosnap_server/store"
)

// Identity registers users and manages their sessions
type Identity struct {
	*Deps
}

// EnsureDefaultBot creates the bot every new user is seeded with, if it is missing
func (s *Identity) EnsureDefaultBot(ctx context.Context) error {

	bot := s.Default

	_, err := s.Records.CreateUser(ctx, schemas.UserRecord{
		Name:      bot.BotName,
		Latitude:  bot.Latitude,
		Longitude: bot.Longitude,
		IsBot:     true,
		Created:   s.now().UnixMilli(),
	})
	if err != nil {
		return errors.Transport("users", err)
	}

	if _, exists, err := s.Records.GetRobot(ctx, bot.BotName); err != nil {
		return errors.Transport("robots", err)
	} else if exists {
		return nil
	}

	if err = s.Records.PutRobot(ctx, schemas.RobotRecord{
		Name:      bot.BotName,
		Latitude:  bot.Latitude,
		Longitude: bot.Longitude,
		IsBot:     true,
	}); err != nil {
		return errors.Transport("robots", err)
	}

	s.publish(ctx, store.PresenceTopic)
	return nil
}

// Register creates a user, its directory entry and its default friend, then logs in
func (s *Identity) Register(ctx context.Context, name string, password string) (schemas.AuthResponseSchema, error) {

	if err := validate(schemas.CredentialsSchema{Username: name, Password: password}); err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	if !helpers.ValidUsername(name) {
		return schemas.AuthResponseSchema{}, errors.InvalidArgument("Username")
	}

	passwordHash, err := helpers.HashPassword(password)
	if err != nil {
		return schemas.AuthResponseSchema{}, errors.Wrap(errors.CodeInvalidArgument, "Password", err)
	}

	created := s.now().UnixMilli()

	applied, err := s.Records.CreateUser(ctx, schemas.UserRecord{
		Name:         name,
		PasswordHash: passwordHash,
		Created:      created,
	})
	if err != nil {
		return schemas.AuthResponseSchema{}, errors.Transport("users", err)
	}
	if !applied {
		return schemas.AuthResponseSchema{}, errors.AlreadyExists("Username")
	}

	if err = s.seedUser(ctx, name, created); err != nil {
		if rollbackErr := s.Records.DeleteUser(ctx, name); rollbackErr != nil {
			errors.HandleComplexError("register rollback "+name, rollbackErr.Error())
		}
		return schemas.AuthResponseSchema{}, err
	}

	s.publish(ctx, store.PresenceTopic)
	s.publish(ctx, store.FriendsTopic(name))

	return s.Login(ctx, name, password)
}

// seedUser writes the default friend edge and the directory entry of a new user
func (s *Identity) seedUser(ctx context.Context, name string, created int64) error {

	bot, _, err := s.Records.GetRobot(ctx, s.Default.BotName)
	if err != nil {
		return errors.Transport("robots", err)
	}

	key, err := helpers.PushKey(created)
	if err != nil {
		return errors.Transport("friend_key", err)
	}

	if err = s.Records.PutFriend(ctx, name, schemas.FriendRecord{
		Key:       key,
		Name:      s.Default.BotName,
		Latitude:  bot.Latitude,
		Longitude: bot.Longitude,
		Created:   created,
	}); err != nil {
		return errors.Transport("friends", err)
	}

	if err = s.Records.PutRobot(ctx, schemas.RobotRecord{Name: name}); err != nil {
		return errors.Transport("robots", err)
	}
	return nil
}

// Login checks a password and opens a session
func (s *Identity) Login(ctx context.Context, name string, password string) (schemas.AuthResponseSchema, error) {

	if err := validate(schemas.CredentialsSchema{Username: name, Password: password}); err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	user, exists, err := s.Records.GetUser(ctx, name)
	if err != nil {
		return schemas.AuthResponseSchema{}, errors.Transport("users", err)
	}
	if !exists {
		return schemas.AuthResponseSchema{}, errors.NotFound("Username")
	}

	if user.IsBot || !helpers.ComparePassword(user.PasswordHash, password) {
		return schemas.AuthResponseSchema{}, errors.WrongCredential("Password")
	}

	sessionID, err := helpers.RandomToken(20)
	if err != nil {
		return schemas.AuthResponseSchema{}, errors.Transport("session_id", err)
	}

	session, err := s.issue(ctx, name, sessionID)
	if err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	info, err := s.UserInfo(ctx, name)
	if err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	return schemas.AuthResponseSchema{Session: session, User: info}, nil
}

// Restore trades a refresh token for a fresh session without a password.
// A wrong token revokes the session, since it means the token was replayed.
func (s *Identity) Restore(ctx context.Context, sessionID string, refreshToken string) (schemas.AuthResponseSchema, error) {

	if err := validate(schemas.RestoreSchema{SessionID: sessionID, RefreshToken: refreshToken}); err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	rec, exists, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return schemas.AuthResponseSchema{}, errors.Transport("refresh_tokens", err)
	}
	if !exists || rec.ExpireAt < s.now().Unix() {
		return schemas.AuthResponseSchema{}, errors.Unauthorized("RefreshToken")
	}

	if rec.Token != refreshToken {
		if err = s.Sessions.DeleteSession(ctx, sessionID); err != nil {
			return schemas.AuthResponseSchema{}, errors.Transport("refresh_tokens", err)
		}
		global.MonitorLogger.Println("Refresh token mismatch; Session: " + sessionID)
		return schemas.AuthResponseSchema{}, errors.Unauthorized("RefreshToken")
	}

	session, err := s.issue(ctx, rec.Username, sessionID)
	if err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	info, err := s.UserInfo(ctx, rec.Username)
	if err != nil {
		return schemas.AuthResponseSchema{}, err
	}

	return schemas.AuthResponseSchema{Session: session, User: info}, nil
}

// Logout revokes the session behind an access token
func (s *Identity) Logout(ctx context.Context, claims helpers.AccessClaims) error {
	if err := s.Sessions.DeleteSession(ctx, claims.SessionID); err != nil {
		return errors.Transport("refresh_tokens", err)
	}
	return nil
}

// Authenticate resolves an access token to a live session
func (s *Identity) Authenticate(ctx context.Context, accessToken string) (helpers.AccessClaims, error) {

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return helpers.AccessClaims{}, errors.Unauthorized("missing")
	}

	claims, err := helpers.ParseJWT(s.Keys, accessToken)
	if err != nil {
		if err == helpers.ErrTokenExpired {
			return helpers.AccessClaims{}, errors.Unauthorized("expired")
		}
		return helpers.AccessClaims{}, errors.Wrap(errors.CodeUnauthorized, "invalid", err)
	}

	_, exists, err := s.Sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return helpers.AccessClaims{}, errors.Transport("refresh_tokens", err)
	}
	if !exists {
		return helpers.AccessClaims{}, errors.Unauthorized("revoked")
	}

	return claims, nil
}

// UserInfo returns a user with its friend list
func (s *Identity) UserInfo(ctx context.Context, name string) (schemas.UserInfoSchema, error) {

	user, exists, err := s.Records.GetUser(ctx, name)
	if err != nil {
		return schemas.UserInfoSchema{}, errors.Transport("users", err)
	}
	if !exists {
		return schemas.UserInfoSchema{}, errors.NotFound("Username")
	}

	friends, err := (&Friends{s.Deps}).List(ctx, name)
	if err != nil {
		return schemas.UserInfoSchema{}, err
	}

	return schemas.UserInfoSchema{
		Username:  user.Name,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
		Friends:   helpers.FriendsToSchema(friends),
	}, nil
}

func (s *Identity) issue(ctx context.Context, name string, sessionID string) (schemas.SessionSchema, error) {

	var tokens schemas.TokensSchema
	var err error

	tokens.RefreshToken.Token, err = helpers.RandomToken(40)
	if err != nil {
		return schemas.SessionSchema{}, errors.Transport("refresh_token", err)
	}
	tokens.RefreshToken.ExpireAt = s.now().Add(global.RefreshTokenDuration).Unix()

	err = s.Sessions.PutSession(ctx, sessionID, schemas.SessionRecord{
		Token:    tokens.RefreshToken.Token,
		Username: name,
		ExpireAt: tokens.RefreshToken.ExpireAt,
	}, global.RefreshTokenDuration)
	if err != nil {
		return schemas.SessionSchema{}, errors.Transport("refresh_tokens", err)
	}

	tokens.AccessToken, err = helpers.GenerateJWT(s.Keys, helpers.AccessClaims{
		Username:  name,
		SessionID: sessionID,
	}, global.AccessTokenDuration)
	if err != nil {
		return schemas.SessionSchema{}, errors.Transport("jwt", err)
	}

	return schemas.SessionSchema{
		SessionID: sessionID,
		Username:  name,
		Tokens:    tokens,
	}, nil
}

package client

import (
	"net/url"
	"sync"

	"robosnap_server/errors"
	"robosnap_server/helpers"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// Session is one logged-in user. It is created by Client.Login or
// Client.Register and passed to everything that acts as that user.
type Session struct {
	client *Client

	mu    sync.RWMutex
	state schemas.SessionSchema
	user  schemas.UserInfoSchema
}

func newSession(c *Client, res schemas.AuthResponseSchema) *Session {
	return &Session{client: c, state: res.Session, user: res.User}
}

// Username returns who the session belongs to
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Username
}

// ID returns the server session id
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SessionID
}

// User returns the user info received at login or on the last Reload
func (s *Session) User() schemas.UserInfoSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Tokens.AccessToken
}

// Refresh trades the refresh token for new tokens
func (s *Session) Refresh() error {

	s.mu.RLock()
	req := schemas.RestoreSchema{
		SessionID:    s.state.SessionID,
		RefreshToken: s.state.Tokens.RefreshToken.Token,
	}
	s.mu.RUnlock()

	res := new(schemas.AuthResponseSchema)
	if err := s.client.send(s.client.agent(fiber.MethodPost, "/auth/refresh").JSON(req), res); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = res.Session
	s.user = res.User
	s.mu.Unlock()
	return nil
}

// do sends an authenticated request, refreshing the tokens once if the access token was refused
func (s *Session) do(method string, path string, build func(*fiber.Agent), out interface{}) error {

	request := func() error {
		a := s.client.agent(method, path).Set(fiber.HeaderAuthorization, "Bearer "+s.accessToken())
		if build != nil {
			build(a)
		}
		return s.client.send(a, out)
	}

	err := request()
	if !errors.Is(err, errors.CodeUnauthorized) {
		return err
	}

	if err = s.Refresh(); err != nil {
		return err
	}
	return request()
}

// Logout ends the session on the server and forgets the stored credentials
func (s *Session) Logout() error {

	err := s.do(fiber.MethodPost, "/auth/logout", nil, nil)

	if forgetErr := s.client.forget(); forgetErr != nil {
		return errors.Transport("keyring", forgetErr)
	}
	return err
}

// Reload fetches the user info again
func (s *Session) Reload() (schemas.UserInfoSchema, error) {

	info := schemas.UserInfoSchema{}
	if err := s.do(fiber.MethodGet, "/user", nil, &info); err != nil {
		return info, err
	}

	s.mu.Lock()
	s.user = info
	s.mu.Unlock()
	return info, nil
}

func (s *Session) Friends() ([]schemas.FriendSchema, error) {
	friends := []schemas.FriendSchema{}
	err := s.do(fiber.MethodGet, "/relation", nil, &friends)
	return friends, err
}

func (s *Session) AddFriend(name string) (schemas.FriendSchema, error) {
	friend := schemas.FriendSchema{}
	err := s.do(fiber.MethodPost, "/relation/"+url.PathEscape(name)+"/add", nil, &friend)
	return friend, err
}

func (s *Session) RemoveFriend(key string) error {
	return s.do(fiber.MethodPost, "/relation/"+url.PathEscape(key)+"/remove", nil, nil)
}

func (s *Session) Search(query string) ([]schemas.SearchResultSchema, error) {
	results := []schemas.SearchResultSchema{}
	err := s.do(fiber.MethodGet, "/search?q="+url.QueryEscape(query), nil, &results)
	return results, err
}

func (s *Session) Presence() ([]schemas.PresenceSchema, error) {
	snapshot := []schemas.PresenceSchema{}
	err := s.do(fiber.MethodGet, "/presence", nil, &snapshot)
	return snapshot, err
}

func (s *Session) ResolveMarker(name string) (schemas.MarkerSchema, error) {
	marker := schemas.MarkerSchema{}
	err := s.do(fiber.MethodGet, "/presence/"+url.PathEscape(name), nil, &marker)
	return marker, err
}

func (s *Session) UpdateLocation(latitude float64, longitude float64) error {
	return s.do(fiber.MethodPut, "/user/location", func(a *fiber.Agent) {
		a.JSON(schemas.LocationSchema{Latitude: latitude, Longitude: longitude})
	}, nil)
}

func (s *Session) EnsureThread(peer string) (schemas.ThreadSchema, error) {
	thread := schemas.ThreadSchema{}
	err := s.do(fiber.MethodPost, "/chat/"+url.PathEscape(peer), nil, &thread)
	return thread, err
}

// Send rejects blank text without contacting the server
func (s *Session) Send(peer string, text string) (schemas.MessageSchema, error) {
	msg := schemas.MessageSchema{}
	if helpers.BlankText(text) {
		return msg, errors.InvalidArgument("Text")
	}
	err := s.do(fiber.MethodPost, "/chat/"+url.PathEscape(peer)+"/message", func(a *fiber.Agent) {
		a.JSON(schemas.SendMessageSchema{Text: text})
	}, &msg)
	return msg, err
}

func (s *Session) Messages(peer string) ([]schemas.MessageSchema, error) {
	messages := []schemas.MessageSchema{}
	err := s.do(fiber.MethodGet, "/chat/"+url.PathEscape(peer), nil, &messages)
	return messages, err
}

func (s *Session) MigrateThreads() (schemas.MigrationSchema, error) {
	report := schemas.MigrationSchema{}
	err := s.do(fiber.MethodPost, "/chat/migrate", nil, &report)
	return report, err
}

// UploadPhoto sends one jpeg to the photo library
func (s *Session) UploadPhoto(jpeg []byte) (schemas.PhotoSchema, error) {
	photo := schemas.PhotoSchema{}
	if len(jpeg) == 0 {
		return photo, errors.InvalidArgument("Photo")
	}
	err := s.do(fiber.MethodPost, "/resource/photo", func(a *fiber.Agent) {
		a.FileData(&fiber.FormFile{
			Fieldname: "photo",
			Name:      "photo.jpg",
			Content:   jpeg,
		}).MultipartForm(nil)
	}, &photo)
	return photo, err
}

func (s *Session) Photos() ([]schemas.PhotoSchema, error) {
	photos := []schemas.PhotoSchema{}
	err := s.do(fiber.MethodGet, "/resource/photo", nil, &photos)
	return photos, err
}

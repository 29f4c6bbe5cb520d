// Package client is the device side of RoboSnap: it keeps the credential
// keyring, opens sessions and drives the capture and location flows.
package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 10 * time.Second

// Client talks to one RoboSnap server
type Client struct {
	// BaseURL includes the version, e.g. http://127.0.0.1:8080/v1
	BaseURL string
	Keyring Keyring
	Timeout time.Duration
}

func New(baseURL string, keyring Keyring) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Keyring: keyring,
		Timeout: DefaultTimeout,
	}
}

func (c *Client) agent(method string, path string) *fiber.Agent {
	url := c.BaseURL + path

	var a *fiber.Agent
	switch method {
	case fiber.MethodGet:
		a = fiber.Get(url)
	case fiber.MethodPut:
		a = fiber.Put(url)
	default:
		a = fiber.Post(url)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return a.Timeout(timeout)
}

func (c *Client) send(a *fiber.Agent, out interface{}) error {
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Transport("request", errs[0])
	}
	return decode(code, body, out)
}

// decode turns a response into out or into the AppError the server described
func decode(code int, body []byte, out interface{}) error {

	if code != fiber.StatusOK {
		res := new(schemas.ErrorResponse)
		if err := jsoniter.Unmarshal(body, res); err != nil || res.Type == "" {
			return errors.Transport("status "+strconv.Itoa(code), fmt.Errorf("%s", body))
		}
		return errors.New(errors.Code(res.Type), res.Problem)
	}

	if out == nil {
		return nil
	}

	if err := jsoniter.Unmarshal(body, out); err != nil {
		return errors.Transport("decode", err)
	}
	return nil
}

func (c *Client) authenticate(path string, username string, password string) (*Session, error) {

	res := new(schemas.AuthResponseSchema)

	a := c.agent(fiber.MethodPost, path).JSON(schemas.CredentialsSchema{
		Username: username,
		Password: password,
	})
	if err := c.send(a, res); err != nil {
		return nil, err
	}

	if err := c.Keyring.Set(SlotUsername, username); err != nil {
		return nil, errors.Transport("keyring", err)
	}
	if err := c.Keyring.Set(SlotPassword, password); err != nil {
		return nil, errors.Transport("keyring", err)
	}

	return newSession(c, *res), nil
}

// Register creates the account, logs in and remembers the credentials
func (c *Client) Register(username string, password string) (*Session, error) {
	return c.authenticate("/auth/register", username, password)
}

// Login logs in and remembers the credentials
func (c *Client) Login(username string, password string) (*Session, error) {
	return c.authenticate("/auth/login", username, password)
}

// RestoreSession logs in with the remembered credentials. With nothing
// remembered it returns a nil session and no error.
func (c *Client) RestoreSession() (*Session, error) {

	username, ok, err := c.Keyring.Get(SlotUsername)
	if err != nil {
		return nil, errors.Transport("keyring", err)
	}
	if !ok || username == "" {
		global.MonitorLogger.Println("No stored credential; Slot: " + SlotUsername)
		return nil, nil
	}

	password, ok, err := c.Keyring.Get(SlotPassword)
	if err != nil {
		return nil, errors.Transport("keyring", err)
	}
	if !ok || password == "" {
		global.MonitorLogger.Println("No stored credential; Slot: " + SlotPassword)
		return nil, nil
	}

	return c.Login(username, password)
}

func (c *Client) forget() error {
	if err := c.Keyring.Delete(SlotUsername); err != nil {
		return err
	}
	return c.Keyring.Delete(SlotPassword)
}

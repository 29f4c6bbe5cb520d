package services

import (
	"context"
	Errors "errors"
	"time"

	"robosnap_server/config"
	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/store"

	"github.com/go-playground/validator/v10"
)

// Deps are the stores and settings every service runs against
type Deps struct {
	Records  store.Records
	Sessions store.Sessions
	Chains   store.Chains
	Objects  store.Objects
	Broker   store.Broker
	Keys     helpers.JWTKeys
	Default  config.DefaultConfig
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// publish reports a change; a failed notification never fails the write that caused it
func (d *Deps) publish(ctx context.Context, topic string) {
	if err := d.Broker.Publish(ctx, topic); err != nil {
		errors.HandleComplexError("publish "+topic, err.Error())
	}
}

// Services bundles the domain operations
type Services struct {
	Identity *Identity
	Friends  *Friends
	Presence *Presence
	Chat     *Chat
	Media    *Media
}

// New builds every service over the same dependencies
func New(d *Deps) *Services {
	if d.Default.BotName == "" {
		d.Default.BotName = "Default"
	}
	return &Services{
		Identity: &Identity{d},
		Friends:  &Friends{d},
		Presence: &Presence{d},
		Chat:     &Chat{d},
		Media:    &Media{d},
	}
}

// validate runs struct validation and reports the first failing field
func validate(v interface{}) error {
	err := global.Validator.Struct(v)
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if Errors.As(err, &validatorErrs) && len(validatorErrs) > 0 {
		return errors.Wrap(errors.CodeInvalidArgument, validatorErrs[0].StructField(), err)
	}
	return errors.Wrap(errors.CodeInvalidArgument, "Body", err)
}

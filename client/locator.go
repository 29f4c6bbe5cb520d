package client

import (
	"robosnap_server/errors"
	"robosnap_server/schemas"
)

// Locator is the device's one-shot position source, gated by a permission
type Locator interface {
	RequestPermission() (bool, error)
	CurrentPosition() (schemas.LocationSchema, error)
}

// ShareLocation publishes the device position. Without permission nothing
// is sent and the error is PERMISSION_DENIED.
func (s *Session) ShareLocation(l Locator) (schemas.LocationSchema, error) {

	granted, err := l.RequestPermission()
	if err != nil {
		return schemas.LocationSchema{}, errors.Wrap(errors.CodePermissionDenied, "Location", err)
	}
	if !granted {
		return schemas.LocationSchema{}, errors.PermissionDenied("Location")
	}

	position, err := l.CurrentPosition()
	if err != nil {
		return schemas.LocationSchema{}, errors.Transport("location", err)
	}

	if err = s.UpdateLocation(position.Latitude, position.Longitude); err != nil {
		return schemas.LocationSchema{}, err
	}
	return position, nil
}

// StaticLocator always answers with the same permission and position
type StaticLocator struct {
	Granted  bool
	Position schemas.LocationSchema
}

func (l StaticLocator) RequestPermission() (bool, error) {
	return l.Granted, nil
}

func (l StaticLocator) CurrentPosition() (schemas.LocationSchema, error) {
	return l.Position, nil
}

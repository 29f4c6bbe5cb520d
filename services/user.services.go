package services

import (
	"context"
	"sort"

	"robosnap_server/errors"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
	"robosnap_server/store"
)

// Presence keeps everyone's last known coordinates and feeds the map
type Presence struct {
	*Deps
}

// UpdateLocation records name's current position
func (s *Presence) UpdateLocation(ctx context.Context, name string, latitude float64, longitude float64) error {

	if err := validate(schemas.LocationSchema{Latitude: latitude, Longitude: longitude}); err != nil {
		return err
	}

	user, exists, err := s.Records.GetUser(ctx, name)
	if err != nil {
		return errors.Transport("users", err)
	}
	if !exists {
		return errors.NotFound("Username")
	}

	user.Latitude = latitude
	user.Longitude = longitude

	if err = s.Records.PutUser(ctx, user); err != nil {
		return errors.Transport("users", err)
	}

	if err = s.Records.PutRobot(ctx, schemas.RobotRecord{
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		IsBot:     user.IsBot,
	}); err != nil {
		return errors.Transport("robots", err)
	}

	s.publish(ctx, store.PresenceTopic)
	return nil
}

// Snapshot returns every known identity's coordinates ordered by name
func (s *Presence) Snapshot(ctx context.Context) ([]schemas.PresenceSchema, error) {

	robots, err := s.Records.Robots(ctx)
	if err != nil {
		return nil, errors.Transport("robots", err)
	}

	snapshot := make([]schemas.PresenceSchema, 0, len(robots))
	for _, robot := range robots {
		snapshot = append(snapshot, schemas.PresenceSchema{
			Name:      robot.Name,
			Latitude:  robot.Latitude,
			Longitude: robot.Longitude,
			IsBot:     robot.IsBot,
		})
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Name < snapshot[j].Name
	})

	return snapshot, nil
}

// Subscribe streams a full presence snapshot on every change until ctx ends
func (s *Presence) Subscribe(ctx context.Context) (<-chan []schemas.PresenceSchema, error) {
	return streamSnapshots(ctx, s.Broker, store.PresenceTopic, s.Snapshot)
}

// ResolveMarker tells owner what the marker for name stands for
func (s *Presence) ResolveMarker(ctx context.Context, owner string, name string) (schemas.MarkerSchema, error) {

	if name == owner {
		return schemas.MarkerSchema{Name: name, Kind: schemas.MarkerSelf}, nil
	}

	friends, err := s.Records.Friends(ctx, owner)
	if err != nil {
		return schemas.MarkerSchema{}, errors.Transport("friends", err)
	}

	helpers.SortFriends(friends)
	for _, f := range friends {
		if f.Name == name {
			return schemas.MarkerSchema{
				Name:      name,
				Kind:      schemas.MarkerFriend,
				FriendKey: f.Key,
				CanChat:   true,
			}, nil
		}
	}

	_, exists, err := s.Records.GetRobot(ctx, name)
	if err != nil {
		return schemas.MarkerSchema{}, errors.Transport("robots", err)
	}
	if !exists {
		return schemas.MarkerSchema{}, errors.NotFound("Name")
	}

	return schemas.MarkerSchema{Name: name, Kind: schemas.MarkerStranger}, nil
}

package services

import (
	"context"
	"sort"
	"strings"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
	"robosnap_server/store"
)

// Friends manages friend edges and the robot directory search
type Friends struct {
	*Deps
}

// List returns owner's friend edges in creation order, with each edge's coordinates
// taken from the directory when the friend is still listed there
func (s *Friends) List(ctx context.Context, owner string) ([]schemas.FriendRecord, error) {

	friends, err := s.Records.Friends(ctx, owner)
	if err != nil {
		return nil, errors.Transport("friends", err)
	}

	if len(friends) == 0 {
		global.MonitorLogger.Println("No friends found; User: " + owner)
		return []schemas.FriendRecord{}, nil
	}

	robots, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	for i := range friends {
		if robot, ok := robots[friends[i].Name]; ok {
			friends[i].Latitude = robot.Latitude
			friends[i].Longitude = robot.Longitude
		}
	}

	helpers.SortFriends(friends)
	return friends, nil
}

// Add appends an edge from owner to target. The target must be in the directory.
// Adding the same target twice leaves two edges.
func (s *Friends) Add(ctx context.Context, owner string, target string) (schemas.FriendRecord, error) {

	if !helpers.ValidUsername(target) {
		return schemas.FriendRecord{}, errors.InvalidArgument("Name")
	}
	if target == owner {
		return schemas.FriendRecord{}, errors.InvalidArgument("Name")
	}

	robot, exists, err := s.Records.GetRobot(ctx, target)
	if err != nil {
		return schemas.FriendRecord{}, errors.Transport("robots", err)
	}
	if !exists {
		return schemas.FriendRecord{}, errors.NotFound("Name")
	}

	created := s.now().UnixMilli()
	key, err := helpers.PushKey(created)
	if err != nil {
		return schemas.FriendRecord{}, errors.Transport("friend_key", err)
	}

	friend := schemas.FriendRecord{
		Key:       key,
		Name:      robot.Name,
		Latitude:  robot.Latitude,
		Longitude: robot.Longitude,
		Created:   created,
	}

	if err = s.Records.PutFriend(ctx, owner, friend); err != nil {
		return schemas.FriendRecord{}, errors.Transport("friends", err)
	}

	s.publish(ctx, store.FriendsTopic(owner))
	return friend, nil
}

// Remove deletes one edge by key; a missing key is a no-op
func (s *Friends) Remove(ctx context.Context, owner string, key string) error {

	removed, err := s.Records.RemoveFriend(ctx, owner, key)
	if err != nil {
		return errors.Transport("friends", err)
	}

	if removed {
		s.publish(ctx, store.FriendsTopic(owner))
	}
	return nil
}

// Search filters the directory by a case-insensitive substring of the name.
// The searching user is left out; names already on its list are flagged Added.
func (s *Friends) Search(ctx context.Context, owner string, query string) ([]schemas.SearchResultSchema, error) {

	robots, err := s.Records.Robots(ctx)
	if err != nil {
		return nil, errors.Transport("robots", err)
	}

	friends, err := s.Records.Friends(ctx, owner)
	if err != nil {
		return nil, errors.Transport("friends", err)
	}

	added := make(map[string]bool, len(friends))
	for _, f := range friends {
		added[f.Name] = true
	}

	query = strings.ToLower(strings.TrimSpace(query))
	results := []schemas.SearchResultSchema{}

	for _, robot := range robots {
		if robot.Name == owner {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(robot.Name), query) {
			continue
		}
		results = append(results, schemas.SearchResultSchema{
			Name:      robot.Name,
			Latitude:  robot.Latitude,
			Longitude: robot.Longitude,
			IsBot:     robot.IsBot,
			Added:     added[robot.Name],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return results, nil
}

// Subscribe streams owner's full friend list on every change until ctx ends
func (s *Friends) Subscribe(ctx context.Context, owner string) (<-chan []schemas.FriendSchema, error) {
	return streamSnapshots(ctx, s.Broker, store.FriendsTopic(owner), func(ctx context.Context) ([]schemas.FriendSchema, error) {
		friends, err := s.List(ctx, owner)
		if err != nil {
			return nil, err
		}
		return helpers.FriendsToSchema(friends), nil
	})
}

func (s *Friends) directory(ctx context.Context) (map[string]schemas.RobotRecord, error) {
	robots, err := s.Records.Robots(ctx)
	if err != nil {
		return nil, errors.Transport("robots", err)
	}
	m := make(map[string]schemas.RobotRecord, len(robots))
	for _, robot := range robots {
		m[robot.Name] = robot
	}
	return m, nil
}

// Lookup returns the public part of a directory entry
func (s *Friends) Lookup(ctx context.Context, name string) (schemas.PublicUserSchema, error) {

	if !helpers.ValidUsername(name) {
		return schemas.PublicUserSchema{}, errors.InvalidArgument("Name")
	}

	robot, exists, err := s.Records.GetRobot(ctx, name)
	if err != nil {
		return schemas.PublicUserSchema{}, errors.Transport("robots", err)
	}
	if !exists {
		return schemas.PublicUserSchema{}, errors.NotFound("Name")
	}

	return schemas.PublicUserSchema{Username: robot.Name, IsBot: robot.IsBot}, nil
}

package helpers

import (
	"sort"
	"strconv"
	"strings"

	"robosnap_server/schemas"

	"github.com/aidarkhanov/nanoid/v2"
)

// VALID_NANOID_CHAR is the alphabet generated keys draw from
const VALID_NANOID_CHAR = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// PushKey generates a unique key that sorts by creation time
func PushKey(created int64) (string, error) {
	suffix, err := nanoid.GenerateString(VALID_NANOID_CHAR, 8)
	if err != nil {
		return "", err
	}
	prefix := strconv.FormatInt(created, 36)
	// pad so lexical order matches numeric order
	if len(prefix) < 9 {
		prefix = strings.Repeat("0", 9-len(prefix)) + prefix
	}
	return prefix + "-" + suffix, nil
}

// SortFriends orders a friend list by creation, ties broken by key
func SortFriends(friends []schemas.FriendRecord) {
	sort.SliceStable(friends, func(i, j int) bool {
		if friends[i].Created != friends[j].Created {
			return friends[i].Created < friends[j].Created
		}
		return friends[i].Key < friends[j].Key
	})
}

// FriendsToSchema strips the stored-only fields from a friend list
func FriendsToSchema(friends []schemas.FriendRecord) []schemas.FriendSchema {
	out := make([]schemas.FriendSchema, 0, len(friends))
	for _, f := range friends {
		out = append(out, schemas.FriendSchema{
			Key:       f.Key,
			Name:      f.Name,
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
			Created:   f.Created,
		})
	}
	return out
}

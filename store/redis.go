package store

import (
	"context"
	"strconv"
	"time"

	"robosnap_server/schemas"

	"github.com/go-redis/redis/v8"
)

const (
	usersKey         = "users"
	robotsKey        = "robots"
	friendsKeyPrefix = "friends:"
	sessionKeyPrefix = "refreshtokens:"
)

// RedisRecords implements Records and Sessions on redis hashes.
type RedisRecords struct {
	client *redis.Client
}

func NewRedisRecords(client *redis.Client) *RedisRecords {
	return &RedisRecords{client: client}
}

func (r *RedisRecords) CreateUser(ctx context.Context, rec schemas.UserRecord) (bool, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}
	return r.client.HSetNX(ctx, usersKey, rec.Name, b).Result()
}

func (r *RedisRecords) GetUser(ctx context.Context, name string) (schemas.UserRecord, bool, error) {
	var rec schemas.UserRecord
	ok, err := r.hget(ctx, usersKey, name, &rec)
	return rec, ok, err
}

func (r *RedisRecords) PutUser(ctx context.Context, rec schemas.UserRecord) error {
	return r.hset(ctx, usersKey, rec.Name, rec)
}

func (r *RedisRecords) DeleteUser(ctx context.Context, name string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, usersKey, name)
		pipe.Del(ctx, friendsKeyPrefix+name)
		pipe.HDel(ctx, robotsKey, name)
		return nil
	})
	return err
}

func (r *RedisRecords) PutFriend(ctx context.Context, owner string, friend schemas.FriendRecord) error {
	return r.hset(ctx, friendsKeyPrefix+owner, friend.Key, friend)
}

func (r *RedisRecords) Friends(ctx context.Context, owner string) ([]schemas.FriendRecord, error) {
	res, err := r.client.HGetAll(ctx, friendsKeyPrefix+owner).Result()
	if err != nil {
		return nil, err
	}
	friends := make([]schemas.FriendRecord, 0, len(res))
	for _, v := range res {
		var f schemas.FriendRecord
		if err = json.UnmarshalFromString(v, &f); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, nil
}

func (r *RedisRecords) RemoveFriend(ctx context.Context, owner string, key string) (bool, error) {
	n, err := r.client.HDel(ctx, friendsKeyPrefix+owner, key).Result()
	return n > 0, err
}

func (r *RedisRecords) PutRobot(ctx context.Context, robot schemas.RobotRecord) error {
	return r.hset(ctx, robotsKey, robot.Name, robot)
}

func (r *RedisRecords) GetRobot(ctx context.Context, name string) (schemas.RobotRecord, bool, error) {
	var robot schemas.RobotRecord
	ok, err := r.hget(ctx, robotsKey, name, &robot)
	return robot, ok, err
}

func (r *RedisRecords) Robots(ctx context.Context) ([]schemas.RobotRecord, error) {
	res, err := r.client.HGetAll(ctx, robotsKey).Result()
	if err != nil {
		return nil, err
	}
	robots := make([]schemas.RobotRecord, 0, len(res))
	for _, v := range res {
		var robot schemas.RobotRecord
		if err = json.UnmarshalFromString(v, &robot); err != nil {
			return nil, err
		}
		robots = append(robots, robot)
	}
	return robots, nil
}

func (r *RedisRecords) PutSession(ctx context.Context, sessionID string, rec schemas.SessionRecord, ttl time.Duration) error {

	query := map[string]interface{}{
		"token":    rec.Token,
		"username": rec.Username,
		"expireat": rec.ExpireAt,
	}

	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKeyPrefix+sessionID, query)
		pipe.Expire(ctx, sessionKeyPrefix+sessionID, ttl)
		return nil
	})

	return err
}

func (r *RedisRecords) GetSession(ctx context.Context, sessionID string) (schemas.SessionRecord, bool, error) {

	res, err := r.client.HGetAll(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return schemas.SessionRecord{}, false, err
	}

	if _, ok := res["token"]; !ok {
		return schemas.SessionRecord{}, false, nil
	}

	expireAt, err := strconv.ParseInt(res["expireat"], 10, 64)
	if err != nil {
		return schemas.SessionRecord{}, false, err
	}

	return schemas.SessionRecord{
		Token:    res["token"],
		Username: res["username"],
		ExpireAt: expireAt,
	}, true, nil
}

func (r *RedisRecords) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

func (r *RedisRecords) hget(ctx context.Context, key string, field string, v interface{}) (bool, error) {
	res, err := r.client.HGet(ctx, key, field).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err = json.UnmarshalFromString(res, v); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRecords) hset(ctx context.Context, key string, field string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, key, field, b).Err()
}

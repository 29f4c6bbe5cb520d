package schemas

// UserRecord is the stored identity, keyed by name (Users/{name})
type UserRecord struct {
	Name         string
	PasswordHash string
	Latitude     float64
	Longitude    float64
	IsBot        bool
	Created      int64
}

// FriendRecord is one edge of a user's friend list (Users/{name}/friends/{key})
type FriendRecord struct {
	Key       string
	Name      string
	Latitude  float64
	Longitude float64
	Created   int64
	// Chats holds a thread written under the owner-nested scheme, kept until migrated
	Chats []MessageSchema `json:",omitempty"`
}

// RobotRecord is a public directory entry (Robots/{name})
type RobotRecord struct {
	Name      string
	Latitude  float64
	Longitude float64
	IsBot     bool
}

// UserInfoSchema struct
type UserInfoSchema struct {
	Username  string
	Latitude  float64
	Longitude float64
	Friends   []FriendSchema
}

// FriendSchema struct
type FriendSchema struct {
	Key       string
	Name      string
	Latitude  float64
	Longitude float64
	Created   int64
}

// SearchResultSchema struct
type SearchResultSchema struct {
	Name      string
	Latitude  float64
	Longitude float64
	IsBot     bool
	Added     bool
}

// LocationSchema struct
type LocationSchema struct {
	Latitude  float64 `validate:"min=-90,max=90"`
	Longitude float64 `validate:"min=-180,max=180"`
}

// PresenceSchema is one entry of a presence snapshot
type PresenceSchema struct {
	Name      string
	Latitude  float64
	Longitude float64
	IsBot     bool
}

// MarkerKind tells what tapping a map marker resolves to
type MarkerKind string

const (
	MarkerSelf     MarkerKind = "self"
	MarkerFriend   MarkerKind = "friend"
	MarkerStranger MarkerKind = "stranger"
)

// MarkerSchema struct
type MarkerSchema struct {
	Name      string
	Kind      MarkerKind
	FriendKey string `json:",omitempty"`
	CanChat   bool
}

// PublicUserSchema is what anyone may learn about a name
type PublicUserSchema struct {
	Username string
	IsBot    bool
}

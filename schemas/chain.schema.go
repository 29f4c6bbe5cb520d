package schemas

// MessageSchema struct
type MessageSchema struct {
	ID        string
	Sender    string
	Text      string
	Timestamp int64
}

// ThreadSchema struct
type ThreadSchema struct {
	ID           string
	Participants []string
	Created      int64
}

// SendMessageSchema struct
type SendMessageSchema struct {
	Text string `validate:"required,max=2000"`
}

// MigrationSchema reports what MigrateNestedThreads moved
type MigrationSchema struct {
	Threads int
	Moved   int
	Skipped int
}

package store

import (
	"context"
	Errors "errors"
	"time"

	"robosnap_server/schemas"

	"github.com/gocql/gocql"
)

// ScyllaChains implements Chains on a ScyllaDB keyspace.
type ScyllaChains struct {
	session *gocql.Session
}

func NewScyllaChains(session *gocql.Session) *ScyllaChains {
	return &ScyllaChains{session: session}
}

// CreateChainTables creates the chat tables if they are missing
func CreateChainTables(ctx context.Context, session *gocql.Session) error {

	err := session.Query(`
		CREATE TABLE IF NOT EXISTS chats (
			chat_id text,
			participants list<text>,
			created timestamp,
			PRIMARY KEY (chat_id))
		WITH compaction = { 'class' :  'LeveledCompactionStrategy'  };
	`).WithContext(ctx).Exec()

	if err != nil {
		return err
	}

	return session.Query(`
		CREATE TABLE IF NOT EXISTS chat_messages (
			chat_id text,
			created timestamp,
			message_id text,
			sender text,
			text text,
			PRIMARY KEY (chat_id, created, message_id))
		WITH
		CLUSTERING ORDER BY (created ASC, message_id ASC) AND
		compaction = { 'class' :  'SizeTieredCompactionStrategy'  };
	`).WithContext(ctx).Exec()
}

func (s *ScyllaChains) EnsureChain(ctx context.Context, thread schemas.ThreadSchema) (bool, error) {
	return s.session.Query(`
		INSERT INTO chats (chat_id,participants,created)
		VALUES(?,?,?)
		IF NOT EXISTS;`,
		thread.ID,
		thread.Participants,
		time.UnixMilli(thread.Created).UTC(),
	).WithContext(ctx).MapScanCAS(make(map[string]interface{}))
}

func (s *ScyllaChains) GetChain(ctx context.Context, chainID string) (schemas.ThreadSchema, bool, error) {

	var (
		participants []string
		created      time.Time
	)

	err := s.session.Query(`
		SELECT participants, created FROM chats WHERE chat_id = ? LIMIT 1;`,
		chainID,
	).WithContext(ctx).Scan(&participants, &created)

	if err != nil {
		if err == gocql.ErrNotFound {
			return schemas.ThreadSchema{}, false, nil
		}
		return schemas.ThreadSchema{}, false, err
	}

	return schemas.ThreadSchema{
		ID:           chainID,
		Participants: participants,
		Created:      created.UnixMilli(),
	}, true, nil
}

func (s *ScyllaChains) AppendMessage(ctx context.Context, chainID string, msg schemas.MessageSchema) error {
	return s.session.Query(`
		INSERT INTO chat_messages (chat_id,created,message_id,sender,text)
		VALUES(?,?,?,?,?);`,
		chainID,
		time.UnixMilli(msg.Timestamp).UTC(),
		msg.ID,
		msg.Sender,
		msg.Text,
	).WithContext(ctx).Exec()
}

func (s *ScyllaChains) Messages(ctx context.Context, chainID string) ([]schemas.MessageSchema, error) {

	iter := s.session.Query(`
		SELECT * FROM chat_messages WHERE chat_id = ?;`,
		chainID,
	).WithContext(ctx).Iter()

	chain := []schemas.MessageSchema{}

	var (
		ok         bool
		messageID  string
		curMessage schemas.MessageSchema
	)
	for {
		row := make(map[string]interface{})
		if !iter.MapScan(row) {
			break
		}
		if messageID, ok = row["message_id"].(string); !ok {
			iter.Close()
			return nil, Errors.New("iter error")
		}
		curMessage = schemas.MessageSchema{ID: messageID}
		curMessage.Sender, _ = row["sender"].(string)
		curMessage.Text, _ = row["text"].(string)
		if created, ok := row["created"].(time.Time); ok {
			curMessage.Timestamp = created.UnixMilli()
		}
		chain = append(chain, curMessage)
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return chain, nil
}

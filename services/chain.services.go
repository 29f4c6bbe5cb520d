package services

import (
	"context"

	"robosnap_server/errors"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
	"robosnap_server/store"

	"github.com/gocql/gocql"
)

// Chat keeps one shared thread per pair of identities, addressed by PairKey
type Chat struct {
	*Deps
}

// EnsureThread creates the thread between a and b if it does not exist yet.
// Concurrent callers agree on a single thread.
func (s *Chat) EnsureThread(ctx context.Context, a string, b string) (schemas.ThreadSchema, error) {

	if err := s.checkPair(ctx, a, b); err != nil {
		return schemas.ThreadSchema{}, err
	}

	thread := schemas.ThreadSchema{
		ID:           helpers.PairKey(a, b),
		Participants: sortedPair(a, b),
		Created:      s.now().UnixMilli(),
	}

	applied, err := s.Chains.EnsureChain(ctx, thread)
	if err != nil {
		return schemas.ThreadSchema{}, errors.Transport("chats", err)
	}
	if applied {
		return thread, nil
	}

	existing, exists, err := s.Chains.GetChain(ctx, thread.ID)
	if err != nil {
		return schemas.ThreadSchema{}, errors.Transport("chats", err)
	}
	if !exists {
		return thread, nil
	}
	return existing, nil
}

// Send appends a message from sender to the thread with peer. Blank text is rejected
// and nothing is stored.
func (s *Chat) Send(ctx context.Context, sender string, peer string, text string) (schemas.MessageSchema, error) {

	if helpers.BlankText(text) {
		return schemas.MessageSchema{}, errors.InvalidArgument("Text")
	}
	if err := validate(schemas.SendMessageSchema{Text: text}); err != nil {
		return schemas.MessageSchema{}, err
	}

	thread, err := s.EnsureThread(ctx, sender, peer)
	if err != nil {
		return schemas.MessageSchema{}, err
	}

	msg := s.newMessage(sender, text)

	if err = s.Chains.AppendMessage(ctx, thread.ID, msg); err != nil {
		return schemas.MessageSchema{}, errors.Transport("chat_messages", err)
	}

	s.publish(ctx, store.ChatTopic(thread.ID))
	return msg, nil
}

// Messages returns the thread between a and b sorted by timestamp.
// A thread that was never opened reads as empty.
func (s *Chat) Messages(ctx context.Context, a string, b string) ([]schemas.MessageSchema, error) {

	if err := s.checkPair(ctx, a, b); err != nil {
		return nil, err
	}

	return s.messages(ctx, helpers.PairKey(a, b))
}

// Subscribe streams the full sorted thread between a and b on every change
func (s *Chat) Subscribe(ctx context.Context, a string, b string) (<-chan []schemas.MessageSchema, error) {

	if err := s.checkPair(ctx, a, b); err != nil {
		return nil, err
	}

	chainID := helpers.PairKey(a, b)

	return streamSnapshots(ctx, s.Broker, store.ChatTopic(chainID), func(ctx context.Context) ([]schemas.MessageSchema, error) {
		return s.messages(ctx, chainID)
	})
}

func (s *Chat) messages(ctx context.Context, chainID string) ([]schemas.MessageSchema, error) {
	chain, err := s.Chains.Messages(ctx, chainID)
	if err != nil {
		return nil, errors.Transport("chat_messages", err)
	}
	helpers.SortMessages(chain)
	return chain, nil
}

func (s *Chat) newMessage(sender string, text string) schemas.MessageSchema {
	messageID := gocql.UUIDFromTime(s.now())
	return schemas.MessageSchema{
		ID:        messageID.String(),
		Sender:    sender,
		Text:      text,
		Timestamp: messageID.Time().UnixMilli(),
	}
}

func (s *Chat) checkPair(ctx context.Context, a string, b string) error {

	if a == b {
		return errors.InvalidArgument("Peer")
	}

	for _, name := range []string{a, b} {
		if !helpers.ValidUsername(name) {
			return errors.InvalidArgument("Peer")
		}
		_, exists, err := s.Records.GetRobot(ctx, name)
		if err != nil {
			return errors.Transport("robots", err)
		}
		if !exists {
			return errors.NotFound("Peer")
		}
	}

	return nil
}

func sortedPair(a string, b string) []string {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}
}

package services

import (
	"context"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/schemas"
	"robosnap_server/store"
)

// MigrateNestedThreads moves messages kept under owner's friend edges (the old
// owner-nested layout) into the shared pair threads. Messages already present in the
// pair thread, matched by id, are skipped. Migrated edges are left with no chats, so
// running it again does nothing.
func (s *Chat) MigrateNestedThreads(ctx context.Context, owner string) (schemas.MigrationSchema, error) {

	var report schemas.MigrationSchema

	friends, err := s.Records.Friends(ctx, owner)
	if err != nil {
		return report, errors.Transport("friends", err)
	}

	helpers.SortFriends(friends)

	for _, friend := range friends {

		if len(friend.Chats) == 0 {
			continue
		}

		thread, err := s.EnsureThread(ctx, owner, friend.Name)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) || errors.Is(err, errors.CodeInvalidArgument) {
				global.MonitorLogger.Println("Nested thread without peer; User: " + owner + "; Friend: " + friend.Name)
				report.Skipped += len(friend.Chats)
				continue
			}
			return report, err
		}

		existing, err := s.Chains.Messages(ctx, thread.ID)
		if err != nil {
			return report, errors.Transport("chat_messages", err)
		}

		seen := make(map[string]bool, len(existing))
		for _, msg := range existing {
			seen[msg.ID] = true
		}

		for _, msg := range friend.Chats {
			if helpers.BlankText(msg.Text) {
				report.Skipped++
				continue
			}
			if msg.ID == "" {
				msg.ID = s.newMessage(msg.Sender, msg.Text).ID
			}
			if seen[msg.ID] {
				report.Skipped++
				continue
			}
			if msg.Sender == "" {
				msg.Sender = owner
			}
			if err = s.Chains.AppendMessage(ctx, thread.ID, msg); err != nil {
				return report, errors.Transport("chat_messages", err)
			}
			seen[msg.ID] = true
			report.Moved++
		}

		friend.Chats = nil
		if err = s.Records.PutFriend(ctx, owner, friend); err != nil {
			return report, errors.Transport("friends", err)
		}

		report.Threads++
		s.publish(ctx, store.ChatTopic(thread.ID))
	}

	return report, nil
}

package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/tucha-cloud/tucha/internal/backend"
)

// peerRef is stored in backend.Chat.Ref. channel is set for supergroups,
// which use the channel variants of the message methods.
type peerRef struct {
	peer    tg.InputPeerClass
	channel *tg.InputChannel
}

func refOf(chat backend.Chat) (peerRef, error) {
	ref, ok := chat.Ref.(peerRef)
	if !ok {
		return peerRef{}, fmt.Errorf("chat %d has no peer reference", chat.ID)
	}
	return ref, nil
}

// Chats lists the groups the account is a member of.
func (c *Conn) Chats(ctx context.Context) ([]backend.Chat, error) {
	res, err := c.api.MessagesGetAllChats(ctx, nil)
	if err != nil {
		return nil, err
	}

	var classes []tg.ChatClass
	switch r := res.(type) {
	case *tg.MessagesChats:
		classes = r.Chats
	case *tg.MessagesChatsSlice:
		classes = r.Chats
	}

	chats := make([]backend.Chat, 0, len(classes))
	for _, cls := range classes {
		if chat, ok := toChat(cls); ok {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

func toChat(cls tg.ChatClass) (backend.Chat, bool) {
	switch ch := cls.(type) {
	case *tg.Chat:
		return backend.Chat{
			ID:    ch.ID,
			Title: ch.Title,
			Ref:   peerRef{peer: &tg.InputPeerChat{ChatID: ch.ID}},
		}, true
	case *tg.Channel:
		input := &tg.InputChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
		return backend.Chat{
			ID:    ch.ID,
			Title: ch.Title,
			Ref: peerRef{
				peer:    &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash},
				channel: input,
			},
		}, true
	}
	return backend.Chat{}, false
}

// CreateChat creates a group with the account as its only member and returns it.
func (c *Conn) CreateChat(ctx context.Context, title string) (backend.Chat, error) {
	_, err := c.api.MessagesCreateChat(ctx, &tg.MessagesCreateChatRequest{
		Users: []tg.InputUserClass{&tg.InputUserSelf{}},
		Title: title,
	})
	if err != nil {
		return backend.Chat{}, err
	}

	chats, err := c.Chats(ctx)
	if err != nil {
		return backend.Chat{}, fmt.Errorf("failed to list chats after creation: %w", err)
	}
	for _, chat := range chats {
		if chat.Title == title {
			return chat, nil
		}
	}
	return backend.Chat{}, fmt.Errorf("created chat %q is not listed", title)
}

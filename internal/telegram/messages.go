package telegram

import (
	"context"

	"github.com/gotd/td/telegram/query"
	"github.com/gotd/td/telegram/query/messages"
	"github.com/gotd/td/tg"

	"github.com/tucha-cloud/tucha/internal/backend"
)

// historyIterator adapts the gotd history iterator. Service messages are skipped.
type historyIterator struct {
	it  *messages.Iterator
	err error
	cur backend.Message
}

func (h *historyIterator) Next(ctx context.Context) bool {
	if h.err != nil {
		return false
	}
	for h.it.Next(ctx) {
		msg, ok := h.it.Value().Msg.(*tg.Message)
		if !ok {
			continue
		}
		h.cur = toMessage(msg)
		return true
	}
	return false
}

func (h *historyIterator) Value() backend.Message { return h.cur }

func (h *historyIterator) Err() error {
	if h.err != nil {
		return h.err
	}
	return h.it.Err()
}

// History iterates the chat messages, newest first.
func (c *Conn) History(ctx context.Context, chat backend.Chat) backend.MessageIterator {
	ref, err := refOf(chat)
	if err != nil {
		return &historyIterator{err: err}
	}
	return &historyIterator{it: query.Messages(c.api).GetHistory(ref.peer).Iter()}
}

// MessagesByID fetches messages by id. Ids that do not exist are left out.
func (c *Conn) MessagesByID(ctx context.Context, chat backend.Chat, ids []int) ([]backend.Message, error) {
	ref, err := refOf(chat)
	if err != nil {
		return nil, err
	}

	input := make([]tg.InputMessageClass, 0, len(ids))
	for _, id := range ids {
		input = append(input, &tg.InputMessageID{ID: id})
	}

	var res tg.MessagesMessagesClass
	if ref.channel != nil {
		res, err = c.api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{Channel: ref.channel, ID: input})
	} else {
		res, err = c.api.MessagesGetMessages(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	var classes []tg.MessageClass
	switch r := res.(type) {
	case *tg.MessagesMessages:
		classes = r.Messages
	case *tg.MessagesMessagesSlice:
		classes = r.Messages
	case *tg.MessagesChannelMessages:
		classes = r.Messages
	}

	out := make([]backend.Message, 0, len(classes))
	for _, cls := range classes {
		if msg, ok := cls.(*tg.Message); ok {
			out = append(out, toMessage(msg))
		}
	}
	return out, nil
}

// DeleteMessages deletes messages for everyone.
func (c *Conn) DeleteMessages(ctx context.Context, chat backend.Chat, ids []int) error {
	ref, err := refOf(chat)
	if err != nil {
		return err
	}
	return c.write(ctx, func(ctx context.Context) error {
		if ref.channel != nil {
			_, err := c.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{Channel: ref.channel, ID: ids})
			return err
		}
		_, err := c.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{Revoke: true, ID: ids})
		return err
	})
}

func toMessage(msg *tg.Message) backend.Message {
	out := backend.Message{ID: msg.ID, Text: msg.Message}
	if msg.Media != nil {
		out.Media = toMedia(msg.Media)
	}
	return out
}

func toMedia(media tg.MessageMediaClass) *backend.Media {
	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		if m.Document == nil {
			return &backend.Media{Kind: backend.MediaOther}
		}
		doc, ok := m.Document.AsNotEmpty()
		if !ok {
			return &backend.Media{Kind: backend.MediaOther}
		}
		out := &backend.Media{Kind: backend.MediaDocument, Size: doc.Size, Ref: doc}
		for _, attr := range doc.Attributes {
			switch a := attr.(type) {
			case *tg.DocumentAttributeFilename:
				out.Name = a.FileName
			case *tg.DocumentAttributeSticker:
				out.Kind = backend.MediaSticker
			}
		}
		return out
	case *tg.MessageMediaPhoto:
		return &backend.Media{Kind: backend.MediaPhoto}
	}
	return &backend.Media{Kind: backend.MediaOther}
}

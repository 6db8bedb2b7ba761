package telegram

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/tucha-cloud/tucha/internal/backend"
)

// UploadFile transfers a local file to the service.
func (c *Conn) UploadFile(ctx context.Context, localPath string) (backend.Upload, error) {
	file, err := uploader.NewUploader(c.api).FromPath(ctx, localPath)
	if err != nil {
		return backend.Upload{}, err
	}
	return backend.Upload{Name: filepath.Base(localPath), Ref: file}, nil
}

// SendDocument posts an uploaded file as a document with text as its caption.
func (c *Conn) SendDocument(ctx context.Context, chat backend.Chat, text string, upload backend.Upload) (backend.Message, error) {
	ref, err := refOf(chat)
	if err != nil {
		return backend.Message{}, err
	}
	file, ok := upload.Ref.(tg.InputFileClass)
	if !ok {
		return backend.Message{}, fmt.Errorf("upload %s has no file reference", upload.Name)
	}

	doc := message.UploadedDocument(file, styling.Plain(text)).Filename(upload.Name)
	var updates tg.UpdatesClass
	err = c.write(ctx, func(ctx context.Context) error {
		var sendErr error
		updates, sendErr = message.NewSender(c.api).To(ref.peer).Media(ctx, doc)
		return sendErr
	})
	if err != nil {
		return backend.Message{}, err
	}
	return backend.Message{ID: sentMessageID(updates), Text: text}, nil
}

// sentMessageID finds the id of the message created by a send, or 0.
func sentMessageID(updates tg.UpdatesClass) int {
	var list []tg.UpdateClass
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		list = u.Updates
	case *tg.UpdatesCombined:
		list = u.Updates
	}
	for _, upd := range list {
		switch v := upd.(type) {
		case *tg.UpdateMessageID:
			return v.ID
		case *tg.UpdateNewMessage:
			return v.Message.GetID()
		case *tg.UpdateNewChannelMessage:
			return v.Message.GetID()
		}
	}
	return 0
}

// Download writes a document attachment to destPath.
func (c *Conn) Download(ctx context.Context, media *backend.Media, destPath string) error {
	doc, ok := media.Ref.(*tg.Document)
	if !ok {
		return fmt.Errorf("media %q is not a document", media.Name)
	}
	_, err := downloader.NewDownloader().Download(c.api, doc.AsInputDocumentFileLocation()).ToPath(ctx, destPath)
	return err
}

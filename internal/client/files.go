package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/diskspace"
	"github.com/tucha-cloud/tucha/internal/models"
	"github.com/tucha-cloud/tucha/internal/process"
	"github.com/tucha-cloud/tucha/internal/tree"
	"github.com/tucha-cloud/tucha/internal/validation"
)

func (c Client) container() (backend.Chat, error) {
	if c.conn == nil {
		return backend.Chat{}, process.Fail(process.ClientIsNotConnected)
	}
	chat, ok := c.Chat()
	if !ok {
		return backend.Chat{}, process.Fail(process.ChatIsNotFound)
	}
	return chat, nil
}

// UploadFiles uploads local files into the storage container. Each object's
// virtual path is dir joined with the local base name. The first failure
// aborts the remaining files; files already sent stay.
func UploadFiles(ctx context.Context, env Environment, c Client, paths []string, dir tree.Path) error {
	logger := env.log()
	chat, err := c.container()
	if err != nil {
		return err
	}

	for _, localPath := range paths {
		virtual := dir.Join(filepath.Base(localPath))
		text, err := models.NewFileMetadata(virtual.String(), c.Username()).Encode()
		if err != nil {
			return process.NewError(process.CannotSerializeMetadata, err)
		}

		upload, err := c.conn.UploadFile(ctx, localPath)
		if err != nil {
			return process.NewError(process.CannotUploadFile, err)
		}
		msg, err := c.conn.SendDocument(ctx, chat, text, upload)
		if err != nil {
			return process.NewError(process.MediaMessageIsNotSent, err)
		}
		logger.Info().Str("path", virtual.String()).Int("message_id", msg.ID).Msg("File uploaded")
	}
	return nil
}

// GetUploadedFiles lists every stored object of the container. Messages whose
// text is not a metadata record, or without a document attachment, are skipped.
func GetUploadedFiles(ctx context.Context, env Environment, c Client) (string, []models.File, error) {
	chat, err := c.container()
	if err != nil {
		return "", nil, err
	}

	var files []models.File
	skipped := 0
	it := c.conn.History(ctx, chat)
	for it.Next(ctx) {
		msg := it.Value()
		metadata, err := models.ParseFileMetadata(msg.Text)
		if err != nil || !msg.Media.Document() {
			skipped++
			continue
		}
		files = append(files, models.NewFile(metadata, msg.ID, msg.Media.Name))
	}
	if err := it.Err(); err != nil {
		return "", nil, process.NewError(process.CannotReadMessages, err)
	}

	env.log().Debug().Str("account", c.Username()).Int("files", len(files)).Int("skipped", skipped).Msg("Container listed")
	return c.Username(), files, nil
}

// DownloadFiles downloads the attachments of the given messages into the
// download directory, named after their display names. A message without a
// document attachment aborts the batch. Returns the written paths.
func DownloadFiles(ctx context.Context, env Environment, c Client, ids []int) ([]string, error) {
	logger := env.log()
	chat, err := c.container()
	if err != nil {
		return nil, err
	}
	if env.DownloadDir == nil {
		return nil, process.Fail(process.HomeDirectoryIsNone)
	}
	dir, err := env.DownloadDir()
	if err != nil {
		return nil, process.NewError(process.HomeDirectoryIsNone, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, process.NewError(process.CannotDownloadMedia, err)
	}

	messages, err := messagesInOrder(ctx, c, chat, ids)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(messages))
	for _, msg := range messages {
		if !msg.Media.Document() {
			return nil, process.Fail(process.MessageNotContainsMedia)
		}
		dest, err := validation.DownloadPath(dir, msg.Media.Name)
		if err != nil {
			return nil, process.NewError(process.CannotDownloadMedia, err)
		}
		if err := diskspace.CheckAvailableSpace(dest, msg.Media.Size, diskspace.DownloadMargin); err != nil {
			return nil, process.NewError(process.CannotDownloadMedia, err)
		}
		if err := c.conn.Download(ctx, msg.Media, dest); err != nil {
			return nil, process.NewError(process.CannotDownloadMedia, err)
		}
		logger.Info().Str("dest", dest).Int("message_id", msg.ID).Msg("File downloaded")
		written = append(written, dest)
	}
	return written, nil
}

// messagesInOrder fetches ids and returns their messages in request order.
// The first id without a message fails the whole batch.
func messagesInOrder(ctx context.Context, c Client, chat backend.Chat, ids []int) ([]backend.Message, error) {
	messages, err := c.conn.MessagesByID(ctx, chat, ids)
	if err != nil {
		return nil, process.NewError(process.MessagesNotFound, err)
	}
	byID := make(map[int]backend.Message, len(messages))
	for _, msg := range messages {
		byID[msg.ID] = msg
	}

	out := make([]backend.Message, 0, len(ids))
	for _, id := range ids {
		msg, ok := byID[id]
		if !ok {
			return nil, process.NewError(process.MessagesNotFound, fmt.Errorf("message %d does not exist", id))
		}
		out = append(out, msg)
	}
	return out, nil
}

// DeleteFiles deletes the given messages one by one. The first failure aborts
// the remaining deletions.
func DeleteFiles(ctx context.Context, env Environment, c Client, ids []int) error {
	logger := env.log()
	chat, err := c.container()
	if err != nil {
		return err
	}

	messages, err := messagesInOrder(ctx, c, chat, ids)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := c.conn.DeleteMessages(ctx, chat, []int{msg.ID}); err != nil {
			return process.NewError(process.CannotDeleteFile, err)
		}
		logger.Info().Int("message_id", msg.ID).Msg("File deleted")
	}
	return nil
}

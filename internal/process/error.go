// Package process holds the single process-state slot shown to the user and the
// failure classification shared by synchronous precondition checks and
// background operations.
package process

import (
	"errors"
	"fmt"
)

// Group is a coarse failure category.
type Group string

const (
	GroupConfiguration  Group = "configuration"
	GroupConnectivity   Group = "connectivity"
	GroupIdentity       Group = "identity"
	GroupDiscovery      Group = "discovery"
	GroupAuthentication Group = "authentication"
	GroupContent        Group = "content"
	GroupPersistence    Group = "persistence"
	GroupBatchItem      Group = "batch-item"
	GroupPrecondition   Group = "precondition"
)

// Code classifies a failure.
type Code int

const (
	// configuration
	InvalidAPI Code = iota + 1
	CannotSaveAPIKeys

	// connectivity
	CannotReadSessionsDirectory
	CannotLoadSessionFile
	ClientIsNotConnected
	LoginCodeIsNotSent

	// identity
	CannotGetUserData
	UsernameIsNone

	// discovery
	CannotGetDialogs
	ChatIsNotFound
	CloudGroupIsNotCreated

	// authentication flow
	SignUpRequired
	PasswordRequired
	InvalidCode
	InvalidPassword
	OtherSignInError

	// content
	CannotReadMessages
	MessagesNotFound
	MessageNotContainsMedia
	CannotSerializeMetadata
	HomeDirectoryIsNone

	// persistence
	CannotSaveSessionInFile

	// batch items
	CannotUploadFile
	MediaMessageIsNotSent
	CannotDownloadMedia
	CannotDeleteFile

	// dispatcher preconditions
	CurrentClientIsNone
	IncompleteClientIsNone
	LoginTokenIsNone
)

type codeInfo struct {
	group   Group
	message string
}

var codes = map[Code]codeInfo{
	InvalidAPI:                  {GroupConfiguration, "Invalid API."},
	CannotSaveAPIKeys:           {GroupConfiguration, "Cannot save api keys in file."},
	CannotReadSessionsDirectory: {GroupConnectivity, "Cannot read directory with sessions files."},
	CannotLoadSessionFile:       {GroupConnectivity, "Cannot load session file."},
	ClientIsNotConnected:        {GroupConnectivity, "Client is not connected."},
	LoginCodeIsNotSent:          {GroupConnectivity, "Login code is not sent."},
	CannotGetUserData:           {GroupIdentity, "Cannot get user data."},
	UsernameIsNone:              {GroupIdentity, "Username is None."},
	CannotGetDialogs:            {GroupDiscovery, "Cannot get dialogs."},
	ChatIsNotFound:              {GroupDiscovery, "Chat is not found."},
	CloudGroupIsNotCreated:      {GroupDiscovery, "Cloud group is not created."},
	SignUpRequired:              {GroupAuthentication, "Sign up required."},
	PasswordRequired:            {GroupAuthentication, "Password required."},
	InvalidCode:                 {GroupAuthentication, "Invalid code."},
	InvalidPassword:             {GroupAuthentication, "Invalid password."},
	OtherSignInError:            {GroupAuthentication, "Other sign in error."},
	CannotReadMessages:          {GroupContent, "Cannot read messages."},
	MessagesNotFound:            {GroupContent, "Message not found."},
	MessageNotContainsMedia:     {GroupContent, "Message not contains media."},
	CannotSerializeMetadata:     {GroupContent, "Cannot serialize file metadata to string."},
	HomeDirectoryIsNone:         {GroupContent, "Home directory is None."},
	CannotSaveSessionInFile:     {GroupPersistence, "Cannot save session in file."},
	CannotUploadFile:            {GroupBatchItem, "Cannot upload file."},
	MediaMessageIsNotSent:       {GroupBatchItem, "Media message is not sent."},
	CannotDownloadMedia:         {GroupBatchItem, "Cannot download media from message."},
	CannotDeleteFile:            {GroupBatchItem, "Cannot delete file."},
	CurrentClientIsNone:         {GroupPrecondition, "Current client is None."},
	IncompleteClientIsNone:      {GroupPrecondition, "Incomplete telegram client is None."},
	LoginTokenIsNone:            {GroupPrecondition, "Login token is None."},
}

// Group returns the taxonomy group of the code.
func (c Code) Group() Group {
	return codes[c].group
}

// String returns the user-facing message for the code.
func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.message
	}
	return fmt.Sprintf("Unknown error (%d).", int(c))
}

// Error is a classified failure. Err is the underlying cause, kept for logs.
type Error struct {
	Code Code
	Err  error
}

// NewError creates a classified failure wrapping cause (which may be nil).
func NewError(code Code, cause error) *Error {
	return &Error{Code: code, Err: cause}
}

// Fail creates a classified failure without a cause.
func Fail(code Code) *Error {
	return &Error{Code: code}
}

func (e *Error) Error() string {
	return e.Code.String()
}

// Detail returns the message followed by the cause, for logs.
func (e *Error) Detail() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code.String(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code, so errors.Is(err, process.Fail(InvalidCode)) works.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// CodeOf extracts the classification from err, or 0 if err is not classified.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return 0
}

package core

import (
	"errors"

	"github.com/tucha-cloud/tucha/internal/backend"
	"github.com/tucha-cloud/tucha/internal/client"
	"github.com/tucha-cloud/tucha/internal/models"
	"github.com/tucha-cloud/tucha/internal/process"
)

// Outcome is the single result of one background operation. The set is
// closed: the integrator handles each variant.
type Outcome interface {
	accept(v outcomeVisitor)
}

type outcomeVisitor interface {
	savedClientsConnected(SavedClientsConnected)
	loginCodeSent(LoginCodeSent)
	signedIn(SignedIn)
	filesUploaded(FilesUploaded)
	objectsListed(ObjectsListed)
	filesDownloaded(FilesDownloaded)
	filesDeleted(FilesDeleted)
	appCredentialsStored(AppCredentialsStored)
	failed(Failed)
}

type SavedClientsConnected struct {
	Clients map[string]client.Client
}

type LoginCodeSent struct {
	Token   backend.LoginToken
	Partial client.Client
}

type SignedIn struct {
	Client   client.Client
	Username string
}

type FilesUploaded struct{}

type ObjectsListed struct {
	Owner string
	Files []models.File
}

type FilesDownloaded struct {
	Paths []string
}

type FilesDeleted struct{}

type AppCredentialsStored struct{}

// Failed carries the classification of a failed operation or precondition.
type Failed struct {
	Err *process.Error
}

func (o SavedClientsConnected) accept(v outcomeVisitor) { v.savedClientsConnected(o) }
func (o LoginCodeSent) accept(v outcomeVisitor)         { v.loginCodeSent(o) }
func (o SignedIn) accept(v outcomeVisitor)              { v.signedIn(o) }
func (o FilesUploaded) accept(v outcomeVisitor)         { v.filesUploaded(o) }
func (o ObjectsListed) accept(v outcomeVisitor)         { v.objectsListed(o) }
func (o FilesDownloaded) accept(v outcomeVisitor)       { v.filesDownloaded(o) }
func (o FilesDeleted) accept(v outcomeVisitor)          { v.filesDeleted(o) }
func (o AppCredentialsStored) accept(v outcomeVisitor)  { v.appCredentialsStored(o) }
func (o Failed) accept(v outcomeVisitor)                { v.failed(o) }

// failure converts an operation error into a Failed outcome. Errors that
// carry no classification get fallback.
func failure(err error, fallback process.Code) Failed {
	var pe *process.Error
	if errors.As(err, &pe) {
		return Failed{Err: pe}
	}
	return Failed{Err: process.NewError(fallback, err)}
}

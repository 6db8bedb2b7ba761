package core

import "github.com/tucha-cloud/tucha/internal/process"

// Request is a user intent. The set of requests is closed: every variant
// implements accept, and the dispatcher must handle each one.
type Request interface {
	Kind() process.Kind
	accept(v requestVisitor) job
}

type requestVisitor interface {
	connectAllSaved(ConnectAllSaved) job
	sendLoginCode(SendLoginCode) job
	signIn(SignIn) job
	listObjects(ListObjects) job
	upload(Upload) job
	download(Download) job
	delete(Delete) job
	storeAppCredentials(StoreAppCredentials) job
}

// ConnectAllSaved connects every persisted session.
type ConnectAllSaved struct{}

// SendLoginCode starts a login for a phone number.
type SendLoginCode struct {
	Phone string
}

// SignIn completes the pending login. Password may be empty.
type SignIn struct {
	Code     string
	Password string
}

// ListObjects refreshes the current account's tree.
type ListObjects struct{}

// Upload stores local files under a virtual folder. Dir is resolved against
// the current folder; empty means the current folder itself.
type Upload struct {
	Paths []string
	Dir   string
}

// Download fetches stored objects by message id.
type Download struct {
	IDs []int
}

// Delete removes stored objects by message id.
type Delete struct {
	IDs []int
}

// StoreAppCredentials persists new application credentials.
type StoreAppCredentials struct {
	APIID   int
	APIHash string
}

func (ConnectAllSaved) Kind() process.Kind     { return process.ConnectingToAllSavedClients }
func (SendLoginCode) Kind() process.Kind       { return process.SendingLoginCode }
func (SignIn) Kind() process.Kind              { return process.SigningIn }
func (ListObjects) Kind() process.Kind         { return process.GettingUploadedFiles }
func (Upload) Kind() process.Kind              { return process.UploadingFiles }
func (Download) Kind() process.Kind            { return process.DownloadingFiles }
func (Delete) Kind() process.Kind              { return process.DeletingFiles }
func (StoreAppCredentials) Kind() process.Kind { return process.StoringAppCredentials }

func (r ConnectAllSaved) accept(v requestVisitor) job     { return v.connectAllSaved(r) }
func (r SendLoginCode) accept(v requestVisitor) job       { return v.sendLoginCode(r) }
func (r SignIn) accept(v requestVisitor) job              { return v.signIn(r) }
func (r ListObjects) accept(v requestVisitor) job         { return v.listObjects(r) }
func (r Upload) accept(v requestVisitor) job              { return v.upload(r) }
func (r Download) accept(v requestVisitor) job            { return v.download(r) }
func (r Delete) accept(v requestVisitor) job              { return v.delete(r) }
func (r StoreAppCredentials) accept(v requestVisitor) job { return v.storeAppCredentials(r) }

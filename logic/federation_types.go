package logic

import (
	"gibber/shared"
	"github.com/google/uuid"
	"time"
)

// Namespace of deterministic remote profile ids.
var remoteProfileNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://gibber.social/ns/remote-profile"))

type RemoteIdentity struct {
	Username string
	Domain   string
}

func (ri RemoteIdentity) Acct() string {
	return shared.MakeAcct(ri.Username, ri.Domain)
}

// ProfileId is the stable local id of the remote profile.
// It is a version 5 UUID and never equals a random (version 4) local id.
func (ri RemoteIdentity) ProfileId() string {
	return uuid.NewSHA1(remoteProfileNamespace, []byte("acct:"+ri.Acct())).String()
}

type ActorDocument struct {
	Id                string
	Name              string
	PreferredUsername string
	Summary           string
	PublishedAt       time.Time
	OutboxUrl         string
	IconUrl           string
	ImageUrl          string
}

// RemotePostActivity is a Note taken from a remote outbox. Dates are kept as received.
type RemotePostActivity struct {
	Id           string
	AttributedTo string
	Content      string
	Published    string
	Updated      string
}

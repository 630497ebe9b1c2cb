package dal

import (
	"time"
)

type Profile struct {
	Id             string // UUID; v5 of acct:user@domain for remote profiles, v4 for local ones
	Username       string // bob
	Domain         string // federated.example
	Name           string
	Summary        string
	FollowersCount int
	FollowingCount int
	AvatarFileId   *string
	HeaderFileId   *string
	Avatar         *File // Loaded from AvatarFileId; not stored
	Header         *File // Loaded from HeaderFileId; not stored
	ActorUri       string // https://federated.example/users/bob; empty for local profiles
	OutboxUrl      string // https://federated.example/users/bob/outbox
	CreatedAt      time.Time
	FetchedAt      time.Time
}

type File struct {
	Id        string
	Url       string // Public URL in the blob store
	SourceUrl string // Where the bytes were downloaded from
	Mime      string // image/png
	Extension string // png
	Name      string // Blob key: <uuid>.<extension>
	Size      int64
	Width     int
	Height    int
	CreatedAt time.Time
}

type Post struct {
	Id          string // Remote URI of the post
	ProfileId   string
	Content     string
	ContentHash int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UpsertResult int

const (
	PostUnchanged UpsertResult = iota
	PostCreated
	PostUpdated
)

func (r UpsertResult) String() string {
	switch r {
	case PostCreated:
		return "new"
	case PostUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

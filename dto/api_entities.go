package dto

import "time"

type File struct {
	Id        string `json:"id"`
	Url       string `json:"url"`
	Mime      string `json:"mime"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type Profile struct {
	Id             string    `json:"id"`
	Username       string    `json:"username"`
	Domain         string    `json:"domain"`
	Name           string    `json:"name"`
	Summary        string    `json:"summary"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	Avatar         *File     `json:"avatar"`
	Header         *File     `json:"header"`
	ActorUri       string    `json:"actor_uri,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Post struct {
	Id        string    `json:"id"`
	ProfileId string    `json:"profile_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostList struct {
	Profile *Profile `json:"profile"`
	Posts   []*Post  `json:"posts"`
}

type CreateProfileReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Name     string `json:"name" validate:"max=256"`
	Summary  string `json:"summary" validate:"max=2048"`
}

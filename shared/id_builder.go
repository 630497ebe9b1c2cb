package shared

import (
	"fmt"
	"net/url"
)

// IdBuilder produces the public URLs of local resources.
type IdBuilder struct {
	Host string
}

func (idb *IdBuilder) SiteUrl() string {
	return fmt.Sprintf("https://%s", idb.Host)
}

func (idb *IdBuilder) ProfilePage(user string) string {
	return fmt.Sprintf("https://%s/profile/%s", idb.Host, user)
}

func (idb *IdBuilder) ActorUrl(user string) string {
	return fmt.Sprintf("https://%s/api/activitypub/%s", idb.Host, user)
}

func (idb *IdBuilder) ActorKeyId(user string) string {
	return fmt.Sprintf("https://%s/api/activitypub/%s#main-key", idb.Host, user)
}

func (idb *IdBuilder) ActorOutbox(user string) string {
	return fmt.Sprintf("https://%s/api/activitypub/%s/outbox", idb.Host, user)
}

func (idb *IdBuilder) ActorOutboxPage(user string) string {
	return fmt.Sprintf("https://%s/api/activitypub/%s/outbox/page", idb.Host, user)
}

func (idb *IdBuilder) PostUrl(postId string) string {
	return fmt.Sprintf("https://%s/post/%s", idb.Host, url.PathEscape(postId))
}

func (idb *IdBuilder) PostActivityUrl(postId string) string {
	return fmt.Sprintf("https://%s/post/%s/activity", idb.Host, url.PathEscape(postId))
}

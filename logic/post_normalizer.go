package logic

import (
	"context"
	"errors"
	"fmt"
	"gibber/dal"
	"gibber/shared"
	"golang.org/x/sync/errgroup"
	"net/url"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_post_normalizer.go -package mocks gibber/logic IPostNormalizer

// IPostNormalizer upserts remote posts for a stored profile.
// Posts that cannot be normalized are logged and left out of the result; they never fail the batch.
type IPostNormalizer interface {
	Normalize(ctx context.Context, activities []*RemotePostActivity, profile *dal.Profile) ([]*dal.Post, error)
}

type postNormalizer struct {
	cfg     *shared.Config
	logger  shared.ILogger
	repo    dal.IRepo
	metrics IMetrics
}

func NewPostNormalizer(cfg *shared.Config, logger shared.ILogger, repo dal.IRepo, metrics IMetrics) IPostNormalizer {
	return &postNormalizer{cfg, logger, repo, metrics}
}

func (pn *postNormalizer) Normalize(
	ctx context.Context,
	activities []*RemotePostActivity,
	profile *dal.Profile,
) ([]*dal.Post, error) {

	results := make([]*dal.Post, len(activities))
	var g errgroup.Group
	g.SetLimit(pn.cfg.MaxParallelUpserts)
	for i, act := range activities {
		g.Go(func() error {
			post, err := pn.normalizeOne(ctx, act, profile)
			if err != nil {
				pn.logger.Warnf("Skipping post '%s' of %s@%s: %v", act.Id, profile.Username, profile.Domain, err)
				pn.metrics.PostNormalizeFailed()
				return nil
			}
			results[i] = post
			return nil
		})
	}
	_ = g.Wait()

	res := make([]*dal.Post, 0, len(activities))
	for _, post := range results {
		if post != nil {
			res = append(res, post)
		}
	}
	return res, nil
}

// Remote post ids are https URLs on the host that serves the author's actor.
func checkPostId(id, actorUri string) error {
	if id == "" {
		return errors.New("post has no id")
	}
	u, err := url.Parse(id)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("post id '%s' is not an https URL", id)
	}
	actor, err := url.Parse(actorUri)
	if err != nil || !strings.EqualFold(u.Host, actor.Host) {
		return fmt.Errorf("post id '%s' is not on the host of %s", id, actorUri)
	}
	return nil
}

func parseActivityTime(val string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (pn *postNormalizer) normalizeOne(ctx context.Context, act *RemotePostActivity, profile *dal.Profile) (*dal.Post, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkPostId(act.Id, profile.ActorUri); err != nil {
		return nil, err
	}
	if act.AttributedTo != profile.ActorUri {
		return nil, fmt.Errorf("post is attributed to '%s', not to %s", act.AttributedTo, profile.ActorUri)
	}

	published, err := parseActivityTime(act.Published)
	if err != nil {
		return nil, fmt.Errorf("invalid published date '%s': %w", act.Published, err)
	}
	updated := published
	if act.Updated != "" {
		if updated, err = parseActivityTime(act.Updated); err != nil {
			return nil, fmt.Errorf("invalid updated date '%s': %w", act.Updated, err)
		}
	}

	content := sanitizeHtml(act.Content)
	post := &dal.Post{
		Id:          act.Id,
		ProfileId:   profile.Id,
		Content:     content,
		ContentHash: contentHash(content),
		CreatedAt:   published,
		UpdatedAt:   updated,
	}
	res, err := pn.repo.UpsertPost(post)
	if err != nil {
		return nil, fmt.Errorf("failed to store post: %w", err)
	}
	pn.metrics.PostUpserted(res.String())
	return post, nil
}

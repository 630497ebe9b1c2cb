package logic

import (
	"context"
	"errors"
	"gibber/dto"
	"gibber/shared"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_outbox_fetcher.go -package mocks gibber/logic IOutboxFetcher

// IOutboxFetcher reads the Notes an actor has published.
// Only the first page of the outbox is retrieved; older posts are not followed through "next".
type IOutboxFetcher interface {
	FetchPosts(ctx context.Context, actor *ActorDocument) ([]*RemotePostActivity, error)
}

type outboxFetcher struct {
	logger shared.ILogger
	client IApubClient
}

func NewOutboxFetcher(logger shared.ILogger, client IApubClient) IOutboxFetcher {
	return &outboxFetcher{logger, client}
}

func (of *outboxFetcher) FetchPosts(ctx context.Context, actor *ActorDocument) ([]*RemotePostActivity, error) {

	if actor.OutboxUrl == "" {
		return nil, &FetchError{Url: actor.Id, Err: errors.New("actor has no outbox")}
	}

	var outbox dto.OrderedCollection
	if err := of.client.GetJson(ctx, "outbox", actor.OutboxUrl, AcceptActivityJson, &outbox); err != nil {
		of.logger.Infof("Failed to fetch outbox %s: %v", actor.OutboxUrl, err)
		return nil, err
	}

	page := outbox.First
	if page == nil {
		if outbox.FirstUrl == "" {
			of.logger.Infof("Outbox %s has no first page", actor.OutboxUrl)
			return []*RemotePostActivity{}, nil
		}
		page = &dto.CollectionPage{}
		if err := of.client.GetJson(ctx, "outbox_page", outbox.FirstUrl, AcceptActivityJson, page); err != nil {
			of.logger.Infof("Failed to fetch outbox page %s: %v", outbox.FirstUrl, err)
			return nil, err
		}
	}

	res := []*RemotePostActivity{}
	for _, item := range page.Items {
		// Boosts and bare references carry no post of this actor.
		// Items without a type are taken as creates when they embed an object.
		if (item.Type != "" && item.Type != "Create") || item.Object == nil {
			continue
		}
		note := item.Object
		res = append(res, &RemotePostActivity{
			Id:           note.Id,
			AttributedTo: note.AttributedTo,
			Content:      note.Content,
			Published:    note.Published,
			Updated:      note.Updated,
		})
	}
	of.logger.Debugf("Outbox %s: %d of %d items are posts", actor.OutboxUrl, len(res), len(page.Items))
	return res, nil
}

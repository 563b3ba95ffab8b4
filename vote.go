package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type voter interface {
	Vote(ctx context.Context, id ImageID, voteType VoteType) error
}

type feedLoader interface {
	Load(ctx context.Context) FeedState
}

// VoteDispatcher sends votes and refreshes the feed after each accepted one.
type VoteDispatcher struct {
	client voter
	feed   feedLoader
	logger *slog.Logger
}

func NewVoteDispatcher(client voter, feed feedLoader, logger *slog.Logger) *VoteDispatcher {
	return &VoteDispatcher{client: client, feed: feed, logger: resolveLogger(logger)}
}

// Vote is best effort: a failed vote is logged and otherwise dropped, leaving
// the feed as it was. An accepted vote triggers exactly one feed reload.
func (d *VoteDispatcher) Vote(ctx context.Context, id ImageID, voteType VoteType) {
	requestID := uuid.NewString()
	err := d.client.Vote(withRequestID(ctx, requestID), id, voteType)
	if err != nil {
		d.logger.Error("vote failed",
			"image_id", id.String(),
			"vote_type", string(voteType),
			"request_id", requestID,
			"error", err,
		)
		return
	}
	d.logger.Debug("vote accepted", "image_id", id.String(), "vote_type", string(voteType), "request_id", requestID)
	d.feed.Load(ctx)
}

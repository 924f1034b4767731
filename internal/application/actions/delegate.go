package actions

import (
	"context"
	"fmt"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// ArticleHandler shares an article summary with the configured contacts.
type ArticleHandler struct {
	share    ports.ShareDelegate
	contacts []string
	logger   ports.Logger
}

func NewArticleHandler(share ports.ShareDelegate, contacts []string, logger ports.Logger) *ArticleHandler {
	return &ArticleHandler{share: share, contacts: contacts, logger: logger}
}

// ShareMessage builds the message body sent for an article.
func ShareMessage(fields domain.Fields) string {
	return fmt.Sprintf("Check out this article: %s - %s", fields.Value("title", "Article"), fields.Value("summary", ""))
}

func (h *ArticleHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	results, err := h.share.Share(ctx, ShareMessage(fields), h.contacts)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("share article: %w", err)
	}
	sent := 0
	for _, r := range results {
		if r.Sent {
			sent++
			continue
		}
		h.logger.Warn("share to contact failed", map[string]interface{}{"contact": r.Contact, "error": r.Error})
	}
	if len(results) > 0 && sent == 0 {
		return domain.Outcome{}, fmt.Errorf("share article: no contact reached")
	}
	return domain.Outcome{Message: "Shared with friends"}, nil
}

// MovieHandler adds a movie to the remote watchlist.
type MovieHandler struct {
	watchlist ports.WatchlistDelegate
	logger    ports.Logger
}

func NewMovieHandler(watchlist ports.WatchlistDelegate, logger ports.Logger) *MovieHandler {
	return &MovieHandler{watchlist: watchlist, logger: logger}
}

func (h *MovieHandler) Execute(ctx context.Context, fields domain.Fields, _ domain.SourceRef) (domain.Outcome, error) {
	movie := fields.Value("title", "Unknown Movie")
	entry, err := h.watchlist.AddToWatchlist(ctx, movie, fields.Value("year", ""))
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("add to watchlist: %w", err)
	}
	h.logger.Info("watchlist updated", map[string]interface{}{"title": entry.Title, "slug": entry.Slug})
	msg := "Added to Letterboxd watchlist"
	if entry.Note != "" {
		msg = fmt.Sprintf("%s (%s)", msg, entry.Note)
	}
	return domain.Outcome{Message: msg}, nil
}

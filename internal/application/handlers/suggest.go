package handlers

import (
	"context"
	"log/slog"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/services"
)

// SuggestHandler drives place suggestions while the user types.
type SuggestHandler struct {
	service *services.SuggestionService
	logger  *slog.Logger
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(service *services.SuggestionService, logger *slog.Logger) *SuggestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestHandler{
		service: service,
		logger:  logger,
	}
}

// Suggest looks up suggestions for text right away.
func (h *SuggestHandler) Suggest(ctx context.Context, text string) ([]entities.Suggestion, error) {
	return h.service.Suggest(ctx, text)
}

// OnInput reacts to the input text changing. Short text clears the
// suggestions at once and cancels any pending lookup. Otherwise a lookup is
// scheduled after the session's quiescence delay, replacing any pending one.
// publish receives the new list, or nil to clear it; results of a lookup
// overtaken by newer input are dropped.
func (h *SuggestHandler) OnInput(ctx context.Context, sess *Session, text string, publish func(text string, list []entities.Suggestion)) {
	if !h.service.Eligible(text) {
		sess.suggester.Cancel()
		sess.setSuggestions(nil)
		publish(text, nil)
		return
	}

	sess.suggester.Schedule(func(gen uint64) {
		list, err := h.service.Suggest(ctx, text)
		if !sess.suggester.IsCurrent(gen) {
			h.logger.Debug("dropping stale suggestions", "session", sess.ID, "text", text)
			return
		}
		if err != nil {
			h.logger.Warn("suggestions failed", "session", sess.ID, "text", text, "error", err)
			list = nil
		}
		sess.setSuggestions(list)
		publish(text, list)
	})
}

// Pick returns the suggestion to search for after a selection: the one at
// index, or the highlighted one when index is negative.
func (h *SuggestHandler) Pick(sess *Session, index int) (entities.Suggestion, bool) {
	var (
		s  entities.Suggestion
		ok bool
	)
	if index >= 0 {
		s, ok = sess.SuggestionAt(index)
	} else {
		s, ok = sess.ActiveSuggestion()
	}
	if ok {
		sess.suggester.Cancel()
		sess.setSuggestions(nil)
	}
	return s, ok
}

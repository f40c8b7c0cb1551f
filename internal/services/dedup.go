package services

import (
	"leadlink/internal/models"
	"leadlink/internal/provider"
)

// leadAccumulator collects everything observed about one profile across both
// interaction streams before it becomes a Lead row.
type leadAccumulator struct {
	ProfileURL string
	FullName   string
	Headline   string
	PictureURL string

	Liked        bool
	Commented    bool
	CommentCount int
}

func (a *leadAccumulator) interactionType() string {
	switch {
	case a.Liked && a.Commented:
		return models.InteractionBoth
	case a.Commented:
		return models.InteractionComment
	default:
		return models.InteractionLike
	}
}

// absorb overwrites display attributes with the incoming values. Empty
// incoming values never erase something we already have; otherwise later
// events win, and since commenters are processed after likers they take
// precedence.
func (a *leadAccumulator) absorb(raw provider.RawInteraction) {
	if raw.Name != "" {
		a.FullName = raw.Name
	}
	if raw.Headline != "" {
		a.Headline = raw.Headline
	}
	if raw.PictureURL != "" {
		a.PictureURL = raw.PictureURL
	}
}

// mergeInteractions folds the liker and commenter streams into one
// deduplicated accumulator per profile key. A profile with three comments is
// still one entry with CommentCount 3. Events without a profile key are
// dropped and counted: a display name alone is never an identity.
//
// The returned slice preserves first-seen order, which later becomes the
// stable lead ordering for listings.
func mergeInteractions(likers, commenters []provider.RawInteraction) ([]*leadAccumulator, int) {
	byProfile := make(map[string]*leadAccumulator)
	var order []*leadAccumulator
	unresolved := 0

	lookup := func(raw provider.RawInteraction) *leadAccumulator {
		acc, ok := byProfile[raw.ProfileURL]
		if !ok {
			acc = &leadAccumulator{ProfileURL: raw.ProfileURL}
			byProfile[raw.ProfileURL] = acc
			order = append(order, acc)
		}
		return acc
	}

	for _, raw := range likers {
		if raw.ProfileURL == "" {
			unresolved++
			continue
		}
		acc := lookup(raw)
		acc.Liked = true
		acc.absorb(raw)
	}

	for _, raw := range commenters {
		if raw.ProfileURL == "" {
			unresolved++
			continue
		}
		acc := lookup(raw)
		acc.Commented = true
		acc.CommentCount++ // one increment per comment event, not per commenter
		acc.absorb(raw)
	}

	return order, unresolved
}

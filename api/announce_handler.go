package api

import (
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/chanderbhanswami/vardhman-mills-sub017/announce"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// listAnnouncements returns the currently active announcements,
// excluding those the requesting session has dismissed. The session is
// identified by an optional sessionKey query parameter.
func (a *API) listAnnouncements(ctx forge.Context) error {
	c := ctx.Context()

	all, err := a.store.ListAnnouncements(c)
	if err != nil {
		return a.fail(ctx, err)
	}

	sessionKey := ctx.Query("sessionKey")
	now := time.Now().UTC()

	active := make([]*announce.Announcement, 0, len(all))
	for _, ann := range all {
		if !ann.ActiveAt(now) {
			continue
		}
		if sessionKey != "" {
			dismissed, err := a.store.IsDismissed(c, sessionKey, ann.ID)
			if err != nil {
				return a.fail(ctx, err)
			}
			if dismissed {
				continue
			}
		}
		active = append(active, ann)
	}

	return respond(ctx, http.StatusOK, active)
}

func (a *API) dismissAnnouncement(ctx forge.Context) error {
	annID, err := id.ParseAnnouncementID(ctx.Param("announcementId"))
	if err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "invalid announcement ID")
	}

	var req DismissRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if req.SessionKey == "" {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "sessionKey must not be empty")
	}

	if _, err := a.store.GetAnnouncement(ctx.Context(), annID); err != nil {
		return a.fail(ctx, err)
	}
	if err := a.store.SaveDismissal(ctx.Context(), req.SessionKey, annID); err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, nil)
}

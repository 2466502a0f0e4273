package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

func (a *API) createSession(ctx forge.Context) error {
	var req CreateSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}

	key := req.SessionKey
	if key == "" {
		key = id.NewSessionID().String()
	}

	s, err := a.sessions.Create(ctx.Context(), key)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusCreated, sessionState(s))
}

func (a *API) getSession(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}
	return respond(ctx, http.StatusOK, sessionState(s))
}

func (a *API) sessionNext(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}
	if err := s.GoToNext(ctx.Context()); err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, sessionState(s))
}

func (a *API) sessionPrevious(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}
	if err := s.GoToPrevious(ctx.Context()); err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, sessionState(s))
}

func (a *API) sessionGoTo(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}

	var req GoToStepRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if req.Step == "" {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "step must not be empty")
	}

	if err := s.GoToStep(ctx.Context(), step.Step(req.Step)); err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, sessionState(s))
}

func (a *API) sessionCompleteStep(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}
	s.CompleteStep(ctx.Context())
	return respond(ctx, http.StatusOK, sessionState(s))
}

func (a *API) sessionSaveData(ctx forge.Context) error {
	s, ok := a.sessions.Get(ctx.Param("sessionKey"))
	if !ok {
		return respondError(ctx, http.StatusNotFound, CodeNotFound, "session not found")
	}

	var req SaveStepDataRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if req.Step == "" {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "step must not be empty")
	}

	if err := s.SaveData(ctx.Context(), step.Step(req.Step), req.Data); err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, sessionState(s))
}

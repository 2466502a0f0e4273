package api

import (
	"net/http"
	"strings"

	"github.com/xraph/forge"
	"golang.org/x/sync/errgroup"

	"github.com/chanderbhanswami/vardhman-mills-sub017/backend"
)

func (a *API) getHero(ctx forge.Context) error {
	hero, err := a.client.GetHero(ctx.Context())
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, hero)
}

func (a *API) featuredProducts(ctx forge.Context) error {
	products, err := a.client.FeaturedProducts(ctx.Context())
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, products)
}

func (a *API) saleProducts(ctx forge.Context) error {
	products, err := a.client.SaleProducts(ctx.Context())
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, products)
}

// home fans in hero, featured, and sale content concurrently.
func (a *API) home(ctx forge.Context) error {
	var (
		hero     *backend.HeroContent
		featured []backend.Product
		sale     []backend.Product
	)

	g, c := errgroup.WithContext(ctx.Context())
	g.Go(func() error {
		var err error
		hero, err = a.client.GetHero(c)
		return err
	})
	g.Go(func() error {
		var err error
		featured, err = a.client.FeaturedProducts(c)
		return err
	})
	g.Go(func() error {
		var err error
		sale, err = a.client.SaleProducts(c)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, backend.HomeContent{
		Hero:     hero,
		Featured: featured,
		Sale:     sale,
	})
}

func (a *API) verifyEmail(ctx forge.Context) error {
	var req VerifyEmailRequest
	if err := ctx.Bind(&req); err != nil {
		return respondError(ctx, http.StatusBadRequest, CodeInvalidJSON, "malformed JSON body")
	}
	if !strings.Contains(req.Email, "@") {
		return respondError(ctx, http.StatusBadRequest, CodeValidationError, "email must be a valid address")
	}

	result, err := a.client.VerifyEmail(ctx.Context(), req.Email)
	if err != nil {
		return a.fail(ctx, err)
	}
	return respond(ctx, http.StatusOK, result)
}

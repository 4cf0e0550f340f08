package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ManualRunner reviews a named pull request outside the webhook flow.
type ManualRunner interface {
	Run(ctx context.Context, owner, repo string, prNumber int) (int, error)
}

type manualReviewRequest struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"pr_number"`
}

// NewManualHandler handles POST /review/manual: run the review pipeline
// for the pull request named in the body.
func NewManualHandler(runner ManualRunner) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req manualReviewRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid request body",
			})
		}
		if req.Owner == "" || req.Repo == "" || req.PRNumber <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "owner, repo, and pr_number are required",
			})
		}

		published, err := runner.Run(c.Request().Context(), req.Owner, req.Repo, req.PRNumber)
		if err != nil {
			log.Error().
				Err(err).
				Str("repo", req.Owner+"/"+req.Repo).
				Int("pr", req.PRNumber).
				Msg("manual review failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "manual review failed",
			})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"message":  "review complete",
			"comments": published,
		})
	}
}

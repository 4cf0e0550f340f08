package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/reviewloop/internal/review"
)

// ReviewCommand returns the CLI command that reviews one pull request on
// demand, without a webhook delivery.
func ReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Review a pull request once and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "Repository owner",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "repo",
				Usage:    "Repository name",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "pr",
				Usage:    "Pull request number",
				Required: true,
			},
		},
		Action: runReview,
	}
}

func runReview(c *cli.Context) error {
	stack, err := buildReviewStack(c)
	if err != nil {
		return err
	}

	manual := review.NewManualTrigger(stack.client, stack.pipeline)
	published, err := manual.Run(c.Context, c.String("owner"), c.String("repo"), c.Int("pr"))
	if err != nil {
		return err
	}

	fmt.Printf("Review complete: %d comment(s) published\n", published)
	return nil
}

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newAICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Writing assistant",
	}
	cmd.AddCommand(
		newAIReviewCmd(a),
		newAITopicsCmd(a),
		newAISuggestCmd(a),
		newAIAnalyzeCmd(a),
	)
	return cmd
}

func newAIReviewCmd(a *app) *cobra.Command {
	var (
		title string
		body  contentFlags
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a draft for readability and SEO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := body.read(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(content) == "" {
				return errors.New("nothing to review: pass --content or --file")
			}
			if !a.ai.ReviewContent(cmd.Context(), content, title) {
				return failed("review", a.ai.Snapshot().ReviewErr)
			}
			return a.out.review(*a.ai.Snapshot().Review)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Draft title")
	body.register(cmd)
	return cmd
}

func newAITopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Suggest topics to write about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.ai.FetchTopicSuggestions(cmd.Context()) {
				return failed("topic suggestions", a.ai.Snapshot().TopicsErr)
			}
			return a.out.topics(a.ai.Snapshot().TopicSuggestions)
		},
	}
}

func newAISuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prompt...>",
		Short: "Generate title and sentence ideas for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if !a.ai.GenerateSuggestions(cmd.Context(), prompt) {
				return failed("suggestions", a.ai.Snapshot().SuggestionsErr)
			}
			return a.out.lines(a.ai.Snapshot().Suggestions)
		},
	}
}

func newAIAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Show statistics for a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.ai.AnalyzePost(cmd.Context(), args[0]) {
				return failed("analyze", a.ai.Snapshot().AnalysisErr)
			}
			return a.out.analysis(a.ai.Snapshot().Analysis)
		},
	}
}

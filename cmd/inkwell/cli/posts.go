package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"inkwell/models"
)

func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"p"},
		Short:   "Browse and manage posts",
	}
	cmd.AddCommand(
		newPostsListCmd(a),
		newPostsMineCmd(a),
		newPostsGetCmd(a),
		newPostsLikeCmd(a),
		newPostsDeleteCmd(a),
		newPostsCreateCmd(a),
		newPostsUpdateCmd(a),
		newPostsPublishCmd(a),
	)
	return cmd
}

func newPostsListCmd(a *app) *cobra.Command {
	var (
		search   string
		category string
		tags     []string
		pages    int
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List published posts",
		Long: `List published posts, newest first.

--search and --category are applied by the service. --tag narrows the
loaded posts locally; a post matches when it carries any of the tags.
--pages loads additional pages the way "load more" does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := models.FilterPatch{Search: &search}
			if category != "" {
				c, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &c
			}
			if len(tags) > 0 {
				patch.Tags = &tags
			}
			a.posts.SetFilter(patch)

			ctx := cmd.Context()
			if !a.posts.FetchPosts(ctx) {
				return failed("list posts", a.posts.Snapshot().PostsErr)
			}
			for i := 1; i < pages; i++ {
				if !a.posts.Snapshot().Cursor.HasMore {
					break
				}
				if !a.posts.FetchMorePosts(ctx) {
					return failed("load more posts", a.posts.Snapshot().PostsErr)
				}
			}
			return a.out.posts(a.posts.VisiblePosts())
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Search title and content")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (Technology, Design, Business, Lifestyle, Tutorial or All)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only show posts with this tag (repeatable)")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	return cmd
}

func newPostsMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your posts, drafts included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.posts.FetchMyPosts(cmd.Context()) {
				return failed("list my posts", a.posts.Snapshot().MyPostsErr)
			}
			return a.out.posts(a.posts.Snapshot().MyPosts)
		},
	}
}

func newPostsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.currentPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.post(post)
		},
	}
}

// currentPost 는 id 를 현재 글로 불러온다. 이미 삭제한 글이면 응답이 와도 현재 글이 비어 있다.
func (a *app) currentPost(ctx context.Context, id string) (models.Post, error) {
	if !a.posts.FetchPostByID(ctx, id) {
		return models.Post{}, failed("get post", a.posts.Snapshot().CurrentPostErr)
	}
	current := a.posts.Snapshot().CurrentPost
	if current == nil || current.ID != id {
		return models.Post{}, fmt.Errorf("get post: %s was deleted", id)
	}
	return *current, nil
}

func newPostsLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.posts.LikePost(cmd.Context(), args[0]) {
				return failed("like post", a.posts.Snapshot().LikeErr)
			}
			return a.out.message(fmt.Sprintf("liked %s", args[0]))
		},
	}
}

func newPostsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your posts",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.posts.DeletePost(cmd.Context(), args[0]) {
				return failed("delete post", a.posts.Snapshot().DeleteErr)
			}
			return a.out.message(fmt.Sprintf("deleted %s", args[0]))
		},
	}
}

// contentFlags 는 본문을 --content 또는 --file 중 하나로 받는다. --file - 은 stdin.
type contentFlags struct {
	content string
	file    string
}

func (f *contentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.content, "content", "", "Post body (HTML)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the body from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
}

func (f *contentFlags) set() bool { return f.content != "" || f.file != "" }

func (f *contentFlags) read(cmd *cobra.Command) (string, error) {
	switch f.file {
	case "":
		return f.content, nil
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	default:
		b, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.file, err)
		}
		return string(b), nil
	}
}

func newPostsCreateCmd(a *app) *cobra.Command {
	var (
		title    string
		category string
		tags     []string
		publish  bool
		body     contentFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := body.read(cmd)
			if err != nil {
				return err
			}
			// 잘못된 카테고리는 스토어 검증에서 걸리도록 그대로 넘긴다.
			c, err := models.ParseCategory(category)
			if err != nil {
				c = models.Category(category)
			}
			created, ok := a.posts.CreatePost(cmd.Context(), models.CreatePostInput{
				Title:       title,
				Content:     content,
				Category:    c,
				Tags:        tags,
				IsPublished: publish,
			})
			if !ok {
				return failed("create post", a.posts.Snapshot().CreateErr)
			}
			return a.out.post(created)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish immediately")
	body.register(cmd)
	return cmd
}

func newPostsUpdateCmd(a *app) *cobra.Command {
	var (
		title    string
		category string
		tags     []string
		body     contentFlags
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of one of your posts",
		Long:  "Only the flags you pass are sent; everything else keeps its current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.UpdatePostInput{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = &title
			}
			if flags.Changed("category") {
				c, err := models.ParseCategory(category)
				if err != nil {
					c = models.Category(category)
				}
				in.Category = &c
			}
			if flags.Changed("tag") {
				in.Tags = tags
			}
			if body.set() {
				content, err := body.read(cmd)
				if err != nil {
					return err
				}
				in.Content = &content
			}
			if in.Title == nil && in.Category == nil && in.Tags == nil && in.Content == nil {
				return errors.New("nothing to update")
			}

			updated, ok := a.posts.UpdatePost(cmd.Context(), in)
			if !ok {
				return failed("update post", a.posts.Snapshot().UpdateErr)
			}
			return a.out.post(updated)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace tags (repeatable)")
	body.register(cmd)
	return cmd
}

func newPostsPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Toggle the published flag of one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, ok := a.posts.TogglePublish(cmd.Context(), args[0])
			if !ok {
				return failed("toggle publish", a.posts.Snapshot().PublishErr)
			}
			return a.out.post(post)
		},
	}
}

// Package cli 는 inkwell 명령행 클라이언트다. 모든 명령이 UI 와 같은
// PostsStore, AIStore 를 사용하므로 동기화 엔진을 손으로 돌려보는 용도로도 쓴다.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inkwell/internal/httpclient"
	"inkwell/internal/logger"
	"inkwell/config"
	"inkwell/resource"
	"inkwell/store"
)

type options struct {
	baseURL string
	token   string
	output  string
	timeout time.Duration
	verbose bool
}

// app 은 PersistentPreRunE 에서 한 번 만들어지고 하위 명령이 공유한다.
type app struct {
	opts  *options
	posts *store.PostsStore
	ai    *store.AIStore
	out   printer
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "inkwell",
		Short: "Command line client for the inkwell publishing service",
		Long: `inkwell talks to the publishing service the way the editor does:
list and filter posts, like, create and publish them, and ask the AI
assistant for reviews and topic ideas.

Examples:
  inkwell posts list --category Technology --pages 2
  inkwell posts create --title "Hello" --file draft.html --category Tutorial
  inkwell ai review --title "Hello" --file draft.html
  inkwell ai topics -o json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", "", "Service base URL (default from config.yaml or INKWELL_BASE_URL)")
	flags.StringVar(&opts.token, "token", "", "Bearer token (default from INKWELL_TOKEN)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output format: table or json (default table on a terminal, json otherwise)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and task transitions")

	root.AddCommand(newPostsCmd(a), newAICmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg := config.GetConfig()

	if a.opts.verbose {
		logger.Init("debug")
	} else {
		// 로그는 stdout 으로 나가므로 출력 포맷을 깨지 않게 에러만 남긴다.
		logger.Init("error")
	}

	if a.opts.baseURL == "" {
		a.opts.baseURL = cfg.Service.BaseURL
	}
	if a.opts.token == "" {
		a.opts.token = cfg.Service.Token
	}
	if a.opts.timeout <= 0 {
		a.opts.timeout = cfg.Service.Timeout
	}

	format, err := parseFormat(a.opts.output)
	if err != nil {
		return err
	}
	a.out = printer{w: cmd.OutOrStdout(), format: format}

	client := resource.NewHTTP(resource.HTTPConfig{
		BaseURL:       a.opts.baseURL,
		Timeout:       a.opts.timeout,
		ReviewTimeout: cfg.Service.ReviewTimeout,
		Tokens:        httpclient.StaticToken(a.opts.token),
	})
	storeOpts := store.Options{PageSize: cfg.Store.PageSize}
	a.posts = store.NewPostsStore(client, storeOpts)
	a.ai = store.NewAIStore(client, storeOpts)
	return nil
}

// failed 는 store 에 기록된 에러를 명령 에러로 바꾼다.
func failed(op string, err *resource.Error) error {
	if err == nil {
		return fmt.Errorf("%s failed", op)
	}
	if errors.Is(err, resource.ErrAuth) {
		return fmt.Errorf("%s: %w (check --token)", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

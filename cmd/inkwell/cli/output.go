package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"inkwell/models"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func defaultFormat() string {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return formatTable
	}
	return formatJSON
}

func parseFormat(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return defaultFormat(), nil
	case formatTable, formatJSON:
		return s, nil
	default:
		return "", fmt.Errorf("invalid --output value %q (want table or json)", s)
	}
}

type printer struct {
	w      io.Writer
	format string
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) table(write func(tw *tabwriter.Writer)) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	write(tw)
	return tw.Flush()
}

func (p printer) posts(posts []models.Post) error {
	if p.format == formatJSON {
		if posts == nil {
			posts = []models.Post{}
		}
		return p.json(posts)
	}
	return p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTAGS\tLIKES\tPUBLISHED")
		for _, post := range posts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n",
				post.ID, post.Title, post.Category, strings.Join(post.Tags, ","), post.LikesCount, post.IsPublished)
		}
	})
}

func (p printer) post(post models.Post) error {
	if p.format == formatJSON {
		return p.json(post)
	}
	return p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID\t%s\n", post.ID)
		fmt.Fprintf(tw, "Title\t%s\n", post.Title)
		fmt.Fprintf(tw, "Category\t%s\n", post.Category)
		fmt.Fprintf(tw, "Tags\t%s\n", strings.Join(post.Tags, ", "))
		fmt.Fprintf(tw, "Published\t%t\n", post.IsPublished)
		fmt.Fprintf(tw, "Likes\t%d\n", post.LikesCount)
		fmt.Fprintf(tw, "Reading time\t%d min\n", post.ReadingTime)
		if post.Author != nil {
			fmt.Fprintf(tw, "Author\t%s\n", post.Author.Name)
		}
		fmt.Fprintf(tw, "Updated\t%s\n", post.UpdatedAt.Format("2006-01-02 15:04"))
		if post.Excerpt != "" {
			fmt.Fprintf(tw, "Excerpt\t%s\n", post.Excerpt)
		}
	})
}

func (p printer) review(r models.AIReview) error {
	if p.format == formatJSON {
		return p.json(r)
	}
	return p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Readability\t%d/100\n", r.ReadabilityScore)
		fmt.Fprintf(tw, "Keywords\t%s\n", strings.Join(r.SEOKeywords, ", "))
		for _, s := range r.Suggestions {
			fmt.Fprintf(tw, "[%s]\t%s\t%s\n", s.Severity, s.Type, s.Message)
		}
	})
}

func (p printer) topics(topics []models.TopicSuggestion) error {
	if p.format == formatJSON {
		return p.json(topics)
	}
	return p.table(func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "TOPIC\tTRENDING\tDESCRIPTION")
		for _, t := range topics {
			fmt.Fprintf(tw, "%s\t%t\t%s\n", t.Title, t.Trending, t.Description)
		}
	})
}

func (p printer) lines(lines []string) error {
	if p.format == formatJSON {
		return p.json(lines)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(p.w, l); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) analysis(a models.PostAnalysis) error {
	if p.format == formatJSON {
		return p.json(a)
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return p.table(func(tw *tabwriter.Writer) {
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%v\n", k, a[k])
		}
	})
}

func (p printer) message(msg string) error {
	if p.format == formatJSON {
		return p.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

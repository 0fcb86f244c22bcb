package reviewer

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText 는 content 에서 마크업을 걷어내고 보이는 텍스트만 반환한다.
// 블록 요소는 줄바꿈이 되고 script, style 본문은 버린다.
// 일반 텍스트는 공백 정리 외에는 그대로 통과한다.
func ExtractText(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF 또는 손상된 마크업: 지금까지 모은 텍스트를 쓴다
			return normalizeLines(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if isBlock(a) {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
				continue
			}
			if isBlock(a) {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			b.Write(z.Text())
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Ul, atom.Ol, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Blockquote, atom.Pre, atom.Tr:
		return true
	}
	return false
}

// normalizeLines 는 줄 안의 연속 공백을 하나로 줄이고 빈 줄을 버린다.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Words 는 text 를 단어로 나누고 앞뒤 구두점을 떼어낸다.
func Words(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}<>")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Sentences 는 문장 끝 구두점과 줄바꿈으로 text 를 나눈다.
func Sentences(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			cur.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

// ReadingTime 은 분당 200 단어 기준으로 읽는 시간(분)을 추정한다. 최소 1분.
func ReadingTime(text string) int {
	n := len(Words(text))
	minutes := (n + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Excerpt 는 text 앞부분 max 글자를 단어 경계에서 잘라 반환한다.
func Excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

package main

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headerTitleRegex = regexp.MustCompile(`Title:\s*(.+)`)
	headerDateRegex  = regexp.MustCompile(`Date:\s*(.+)`)
	headerLinkRegex  = regexp.MustCompile(`Link:\s*(.+)`)
	headerLinesRegex = regexp.MustCompile(`Title:.+\n|Date:.+\n|Link:.+\n`)
)

// FormatArticleContent renders an article record as markdown: a heading, the
// date, a link and the body reflowed into paragraphs.
func FormatArticleContent(content string) string {
	var sb strings.Builder

	content = normalizeNewlines(content)

	if m := headerTitleRegex.FindStringSubmatch(content); m != nil {
		fmt.Fprintf(&sb, "### %s\n\n", m[1])
	}
	if m := headerDateRegex.FindStringSubmatch(content); m != nil {
		fmt.Fprintf(&sb, "**Date:** %s\n\n", m[1])
	}
	if m := headerLinkRegex.FindStringSubmatch(content); m != nil {
		fmt.Fprintf(&sb, "[Link to news article](%s)\n\n", m[1])
	}

	body := strings.TrimSpace(headerLinesRegex.ReplaceAllString(content, ""))

	paragraphs := strings.Split(body, "\n\n")
	for i, para := range paragraphs {
		paragraphs[i] = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
	}
	sb.WriteString(strings.Join(paragraphs, "\n\n"))

	return sb.String()
}

// HighlightText wraps every case-insensitive occurrence of each term in
// markdown bold markers. Terms are applied one after another, so a term that
// is a substring of another may end up marked twice.
func HighlightText(text string, terms ...string) string {
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			continue
		}
		seen[key] = true

		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
		text = pattern.ReplaceAllStringFunc(text, func(m string) string {
			return "**" + m + "**"
		})
	}
	return text
}

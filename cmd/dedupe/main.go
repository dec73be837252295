package main

import (
	"bufio"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const recordDelimiter = "======================================="

var linkRegex = regexp.MustCompile(`Link:\s*(\S+)`)

// record is one article block and where it lives in the corpus
type record struct {
	file  string
	index int
	text  string
}

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: dedupe <report|remove> <corpus-directory>")
	}

	command := os.Args[1]
	corpusDir := os.Args[2]

	switch command {
	case "report":
		if err := report(os.Stdout, corpusDir); err != nil {
			log.Fatal(err)
		}
	case "remove":
		if err := removeDuplicates(os.Stdout, bufio.NewReader(os.Stdin), corpusDir); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// splitRecords returns the non-blank records of a corpus file in order
func splitRecords(content string) []string {
	var records []string
	for _, r := range strings.Split(content, recordDelimiter) {
		if r = strings.TrimSpace(r); r != "" {
			records = append(records, r)
		}
	}
	return records
}

func extractLink(text string) string {
	matches := linkRegex.FindStringSubmatch(text)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// generateLinkHash returns a short id used when listing a link
func generateLinkHash(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h)[:8]
}

// collectDuplicates groups records by link across all corpus files.
// Groups keep corpus order; records without a link are ignored.
func collectDuplicates(corpusDir string) (map[string][]record, []string, error) {
	files, err := filepath.Glob(filepath.Join(corpusDir, "*.txt"))
	if err != nil {
		return nil, nil, fmt.Errorf("listing corpus files: %w", err)
	}

	groups := make(map[string][]record)
	var order []string
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("reading file %s: %w", file, err)
		}

		for i, text := range splitRecords(string(content)) {
			link := extractLink(text)
			if link == "" {
				continue
			}
			if _, seen := groups[link]; !seen {
				order = append(order, link)
			}
			groups[link] = append(groups[link], record{file: file, index: i, text: text})
		}
	}

	return groups, order, nil
}

func report(w io.Writer, corpusDir string) error {
	groups, order, err := collectDuplicates(corpusDir)
	if err != nil {
		return err
	}

	found := 0
	for _, link := range order {
		recs := groups[link]
		if len(recs) <= 1 {
			continue
		}
		found++
		fmt.Fprintf(w, "%s %s (%d copies)\n", generateLinkHash(link), link, len(recs))
		for _, r := range recs {
			fmt.Fprintf(w, "  %s#%d\n", filepath.Base(r.file), r.index+1)
		}
	}

	fmt.Fprintf(w, "%d duplicated links\n", found)
	return nil
}

func removeDuplicates(w io.Writer, reader *bufio.Reader, corpusDir string) error {
	groups, order, err := collectDuplicates(corpusDir)
	if err != nil {
		return err
	}

	// file -> record index -> drop
	drop := make(map[string]map[int]bool)
	for _, link := range order {
		recs := groups[link]
		if len(recs) <= 1 {
			continue
		}

		fmt.Fprintf(w, "\nFound %d copies of %s:\n", len(recs), link)
		for i, r := range recs {
			name := fmt.Sprintf("%s#%d", filepath.Base(r.file), r.index+1)
			if i == 0 {
				fmt.Fprintf(w, "  KEEP: %s\n", name)
				continue
			}
			if confirmDelete(w, reader, name) {
				if drop[r.file] == nil {
					drop[r.file] = make(map[int]bool)
				}
				drop[r.file][r.index] = true
			} else {
				fmt.Fprintf(w, "  SKIP: %s\n", name)
			}
		}
	}

	totalRemoved := 0
	for file, indexes := range drop {
		removed, err := rewriteWithout(file, indexes)
		if err != nil {
			log.Printf("Error rewriting %s: %v", file, err)
			continue
		}
		totalRemoved += removed
	}

	fmt.Fprintf(w, "\nRemoved %d duplicate records\n", totalRemoved)
	return nil
}

// rewriteWithout rewrites file without the records at the given indexes
func rewriteWithout(file string, indexes map[int]bool) (int, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	removed := 0
	for i, text := range splitRecords(string(content)) {
		if indexes[i] {
			removed++
			continue
		}
		fmt.Fprintf(&sb, "%s\n%s\n", text, recordDelimiter)
	}

	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return 0, err
	}
	return removed, os.Rename(tmp, file)
}

func confirmDelete(w io.Writer, reader *bufio.Reader, name string) bool {
	for {
		fmt.Fprintf(w, "  DELETE %s? [y/N]: ", name)
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Fprintln(w, "  Please enter y or n.")
		}
	}
}

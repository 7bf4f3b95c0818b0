// Package catalog groups a raw object store listing into the browsable
// notes/questions structure shown to students.
package catalog

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Sections
const (
	SectionNotes     = "notes"
	SectionQuestions = "questions"
)

// DefaultFolder groups entries whose public id has no leading folder
const DefaultFolder = "Other"

const (
	maxDisplayName = 30
	truncatedName  = 27
)

var (
	documentExtensions = map[string]bool{"pdf": true, "docx": true}
	documentSuffix     = regexp.MustCompile(`(?i)\.(pdf|docx)$`)
)

// Item one entry of the store listing
type Item struct {
	PublicID  string    `json:"public_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry a listed document with its derived names
// @Description catalog entry
type Entry struct {
	PublicID     string    `json:"public_id"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
	Extension    string    `json:"extension" example:"PDF"`
	DisplayName  string    `json:"displayName" example:"Data Structures Notes"`
	OriginalName string    `json:"originalName" example:"data_structures-notes.pdf"`
}

// Group the entries of one top level folder
// @Description catalog folder
type Group struct {
	Folder string  `json:"folder" example:"Notes"`
	Files  []Entry `json:"files"`
}

// Catalog groups per section, folders in first-seen order
// @Description grouped resources
type Catalog struct {
	Notes     []Group `json:"notes"`
	Questions []Group `json:"questions"`
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	n := 0
	for _, groups := range [][]Group{c.Notes, c.Questions} {
		for _, g := range groups {
			n += len(g.Files)
		}
	}
	return n
}

// Build keeps pdf and docx items and groups them by section and top level folder,
// preserving input order.
func Build(items []Item) *Catalog {
	c := &Catalog{Notes: []Group{}, Questions: []Group{}}
	index := map[string]map[string]int{
		SectionNotes:     {},
		SectionQuestions: {},
	}

	for _, item := range items {
		ext := Extension(item.URL)
		if !documentExtensions[ext] {
			continue
		}

		folder := TopFolder(item.PublicID)
		section := Section(folder)
		groups := &c.Notes
		if section == SectionQuestions {
			groups = &c.Questions
		}

		i, ok := index[section][folder]
		if !ok {
			*groups = append(*groups, Group{Folder: folder, Files: []Entry{}})
			i = len(*groups) - 1
			index[section][folder] = i
		}

		name := BaseName(item.PublicID)
		(*groups)[i].Files = append((*groups)[i].Files, Entry{
			PublicID:     item.PublicID,
			URL:          item.URL,
			CreatedAt:    item.CreatedAt,
			Extension:    strings.ToUpper(ext),
			DisplayName:  DisplayName(name),
			OriginalName: name,
		})
	}
	return c
}

// Extension returns the lower-cased extension of a URL, ignoring the query string
func Extension(rawURL string) string {
	if i := strings.Index(rawURL, "?"); i >= 0 {
		rawURL = rawURL[:i]
	}
	i := strings.LastIndex(rawURL, ".")
	if i < 0 {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(rawURL[i+1:])
}

// TopFolder returns the first path segment of a public id, DefaultFolder when empty
func TopFolder(publicID string) string {
	first := strings.SplitN(publicID, "/", 2)[0]
	if first == "" {
		return DefaultFolder
	}
	return first
}

// Section classifies a folder as questions or notes
func Section(folder string) string {
	if strings.Contains(strings.ToLower(folder), "question") {
		return SectionQuestions
	}
	return SectionNotes
}

// BaseName returns the last path segment of a public id
func BaseName(publicID string) string {
	return publicID[strings.LastIndex(publicID, "/")+1:]
}

// DisplayName turns a file name into a short human title:
// "data_structures-notes.pdf" becomes "Data Structures Notes".
func DisplayName(fileName string) string {
	name := documentSuffix.ReplaceAllString(fileName, "")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	name = titleCase(name)

	if utf8.RuneCountInString(name) > maxDisplayName {
		return string([]rune(name)[:truncatedName]) + "..."
	}
	return name
}

// titleCase upper-cases the first letter or digit of every whitespace separated word and
// lower-cases what follows it. Leading punctuation and whitespace are kept as is.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			inWord = false
		case inWord:
			r = unicode.ToLower(r)
		case isWordRune(r):
			r = unicode.ToUpper(r)
			inWord = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

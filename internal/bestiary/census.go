// Package bestiary crawls an alphabetical MediaWiki category and counts
// its member pages per first letter. Discovery walks the category's
// "next page" pagination links sequentially; the discovered pages are then
// fetched concurrently and their tallies merged into a single census.
package bestiary

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Census maps an upper-cased first letter to the number of member pages
// starting with it.
type Census map[string]int

// Add counts one title. Empty titles are ignored.
func (c Census) Add(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	r, _ := utf8.DecodeRuneInString(title)
	c[strings.ToUpper(string(r))]++
}

// Merge folds other into c.
func (c Census) Merge(other Census) {
	for letter, n := range other {
		c[letter] += n
	}
}

// Total returns the number of titles counted.
func (c Census) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Letters returns the counted letters in sorted order.
func (c Census) Letters() []string {
	letters := make([]string, 0, len(c))
	for letter := range c {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	return letters
}

package main

import (
	"fmt"
	"math/rand"
)

const (
	authorCount   = 10
	categoryCount = 10
	bookCount     = 83
)

type plannedBook struct {
	Name string
	// Author and Categories index into plan.Authors and plan.Categories.
	Author     int
	Categories []int
}

type plan struct {
	Authors    []string
	Categories []string
	Books      []plannedBook
}

var (
	firstNames = []string{"Ada", "Jorge", "Ursula", "Chinua", "Italo", "Octavia", "Haruki", "Toni", "Stanislaw", "Clarice", "Gabriel", "Virginia"}
	lastNames  = []string{"Borges", "Calvino", "Butler", "Achebe", "Lem", "Lispector", "Morrison", "Woolf", "Murakami", "Marquez", "Le Guin", "Lovelace"}
	genres     = []string{"Fiction", "Science Fiction", "History", "Science", "Technology", "Romance", "Mystery", "Biography", "Philosophy", "Art", "Poetry", "Travel"}
	words      = []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
)

// newPlan draws the fixture set: unique names throughout, a random author per
// book and one to three distinct categories.
func newPlan(r *rand.Rand) plan {
	p := plan{
		Authors:    uniqueNames(r, authorCount, func() string { return pick(r, firstNames) + " " + pick(r, lastNames) }),
		Categories: uniqueNames(r, categoryCount, func() string { return pick(r, genres) }),
	}
	titles := uniqueNames(r, bookCount, func() string {
		return fmt.Sprintf("The %s of %s %s", pick(r, words), pick(r, words), pick(r, words))
	})
	for _, title := range titles {
		p.Books = append(p.Books, plannedBook{
			Name:       title,
			Author:     r.Intn(authorCount),
			Categories: r.Perm(categoryCount)[:1+r.Intn(3)],
		})
	}
	return p
}

// uniqueNames calls gen until it has n distinct values, numbering repeats
// once the generator stops producing new ones.
func uniqueNames(r *rand.Rand, n int, gen func() string) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for attempts := 0; len(out) < n; attempts++ {
		name := gen()
		if attempts > n*20 {
			name = fmt.Sprintf("%s %d", name, len(out)+1)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func pick(r *rand.Rand, from []string) string {
	return from[r.Intn(len(from))]
}

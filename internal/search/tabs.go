package search

import (
	"fmt"

	"github.com/atinyakov/memorial/internal/models"
)

// Tab selects a subset of heroes by the found/missing split.
type Tab string

const (
	// TabAll shows every hero.
	TabAll Tab = "all"
	// TabFound shows heroes with a confirmed death year.
	TabFound Tab = "found"
	// TabMissing shows heroes whose fate is unconfirmed.
	TabMissing Tab = "missing"
)

// ParseTab converts user input to a Tab; empty input means TabAll.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabAll:
		return TabAll, nil
	case TabFound, TabMissing:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// HeroesInTab returns the heroes belonging to tab, in input order.
func HeroesInTab(heroes []models.Hero, tab Tab) []models.Hero {
	out := make([]models.Hero, 0, len(heroes))
	for _, h := range heroes {
		switch tab {
		case TabFound:
			if !h.Found() {
				continue
			}
		case TabMissing:
			if h.Found() {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// Stats are the counters shown on the home page.
type Stats struct {
	Total   int
	Found   int
	Missing int
}

// Summarize counts heroes by fate.
func Summarize(heroes []models.Hero) Stats {
	s := Stats{Total: len(heroes)}
	for _, h := range heroes {
		if h.Found() {
			s.Found++
		} else {
			s.Missing++
		}
	}
	return s
}

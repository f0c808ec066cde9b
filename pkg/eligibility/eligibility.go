// Package eligibility decides whether a user may borrow one more item of
// a given category. It is a pure function of the user's dates, admin flag
// and already-loaded reservations, so it can be tested without a store.
package eligibility

import (
	"time"

	"libmanager/pkg/models"
)

// CategoryLimits are the per-category borrowing caps, keyed by how long
// the user has been a member. A count strictly below the cap passes.
type CategoryLimits struct {
	FirstYear  int // membership < 1 year
	SecondYear int // membership < 2 years
	After      int // membership >= 2 years
}

// Rules carries every threshold so tests can run with smaller numbers.
type Rules struct {
	AdultAge   int
	Books      CategoryLimits
	MinorBooks int
	DVDs       CategoryLimits
}

func DefaultRules() Rules {
	return Rules{
		AdultAge:   12,
		Books:      CategoryLimits{FirstYear: 4, SecondYear: 5, After: 7},
		MinorBooks: 5,
		DVDs:       CategoryLimits{FirstYear: 2, SecondYear: 3, After: 5},
	}
}

type Evaluator struct {
	rules Rules
}

func NewEvaluator(rules Rules) *Evaluator {
	return &Evaluator{rules: rules}
}

// CanBorrow reports whether the user may add one more reservation of the
// given category. The user's Reservations must be loaded with their items.
func (e *Evaluator) CanBorrow(user *models.User, category models.Category, now time.Time) bool {
	// Admin users can borrow as many items as they want.
	if user.Admin {
		return true
	}

	membershipYears := wholeYears(user.RegistrationDate, now)
	isAdult := wholeYears(user.Birthday, now) >= e.rules.AdultAge

	borrowed := 0
	for _, r := range user.Reservations {
		if r.Kind() == category {
			borrowed++
		}
	}

	switch category {
	case models.CategoryBook:
		if !isAdult {
			return borrowed < e.rules.MinorBooks
		}
		return borrowed < e.rules.Books.cap(membershipYears)
	case models.CategoryDVD:
		// Children can't borrow DVDs at all.
		if !isAdult {
			return false
		}
		return borrowed < e.rules.DVDs.cap(membershipYears)
	}
	// No rule covers other categories.
	return false
}

func (l CategoryLimits) cap(membershipYears int) int {
	switch {
	case membershipYears < 1:
		return l.FirstYear
	case membershipYears < 2:
		return l.SecondYear
	default:
		return l.After
	}
}

// wholeYears counts full calendar years elapsed between from and to.
func wholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}

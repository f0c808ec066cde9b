package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"libmanager/pkg/models"
)

func testUser(membershipYears, age int, borrowed map[models.Category]int) *models.User {
	now := time.Now()
	user := &models.User{
		Username:         "testuser",
		Birthday:         now.AddDate(-age, 0, -1),
		RegistrationDate: now.AddDate(-membershipYears, 0, -1),
	}
	for category, count := range borrowed {
		for i := 0; i < count; i++ {
			user.Reservations = append(user.Reservations, models.Reservation{
				Item: models.Item{Category: category},
			})
		}
	}
	return user
}

func TestAdminAlwaysEligible(t *testing.T) {
	eval := NewEvaluator(DefaultRules())
	user := testUser(0, 30, map[models.Category]int{models.CategoryBook: 50, models.CategoryDVD: 50})
	user.Admin = true

	assert.True(t, eval.CanBorrow(user, models.CategoryBook, time.Now()))
	assert.True(t, eval.CanBorrow(user, models.CategoryDVD, time.Now()))
}

func TestAdultBookLimitsFirstYear(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	withThree := testUser(0, 30, map[models.Category]int{models.CategoryBook: 3})
	assert.True(t, eval.CanBorrow(withThree, models.CategoryBook, time.Now()))

	withFour := testUser(0, 30, map[models.Category]int{models.CategoryBook: 4})
	assert.False(t, eval.CanBorrow(withFour, models.CategoryBook, time.Now()))
}

func TestAdultBookLimitsSecondYear(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	withFour := testUser(1, 30, map[models.Category]int{models.CategoryBook: 4})
	assert.True(t, eval.CanBorrow(withFour, models.CategoryBook, time.Now()))

	withFive := testUser(1, 30, map[models.Category]int{models.CategoryBook: 5})
	assert.False(t, eval.CanBorrow(withFive, models.CategoryBook, time.Now()))
}

func TestAdultBookLimitsAfterTwoYears(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	withSix := testUser(2, 30, map[models.Category]int{models.CategoryBook: 6})
	assert.True(t, eval.CanBorrow(withSix, models.CategoryBook, time.Now()))

	withSeven := testUser(2, 30, map[models.Category]int{models.CategoryBook: 7})
	assert.False(t, eval.CanBorrow(withSeven, models.CategoryBook, time.Now()))
}

func TestMinorBookLimit(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	// The flat limit of 5 applies regardless of membership duration.
	withFour := testUser(3, 10, map[models.Category]int{models.CategoryBook: 4})
	assert.True(t, eval.CanBorrow(withFour, models.CategoryBook, time.Now()))

	withFive := testUser(3, 10, map[models.Category]int{models.CategoryBook: 5})
	assert.False(t, eval.CanBorrow(withFive, models.CategoryBook, time.Now()))
}

func TestMinorNeverBorrowsDVDs(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	user := testUser(5, 10, nil)
	assert.False(t, eval.CanBorrow(user, models.CategoryDVD, time.Now()))
}

func TestAdultDVDLimits(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	firstYear := testUser(0, 30, map[models.Category]int{models.CategoryDVD: 1})
	assert.True(t, eval.CanBorrow(firstYear, models.CategoryDVD, time.Now()))

	firstYearAtCap := testUser(0, 30, map[models.Category]int{models.CategoryDVD: 2})
	assert.False(t, eval.CanBorrow(firstYearAtCap, models.CategoryDVD, time.Now()))

	veteran := testUser(4, 30, map[models.Category]int{models.CategoryDVD: 4})
	assert.True(t, eval.CanBorrow(veteran, models.CategoryDVD, time.Now()))

	veteranAtCap := testUser(4, 30, map[models.Category]int{models.CategoryDVD: 5})
	assert.False(t, eval.CanBorrow(veteranAtCap, models.CategoryDVD, time.Now()))
}

func TestCountsOnlyRequestedCategory(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	// Four DVDs must not count against the book limit.
	user := testUser(0, 30, map[models.Category]int{models.CategoryDVD: 4, models.CategoryBook: 3})
	assert.True(t, eval.CanBorrow(user, models.CategoryBook, time.Now()))
}

func TestUnknownCategoryIneligible(t *testing.T) {
	eval := NewEvaluator(DefaultRules())

	user := testUser(5, 30, nil)
	assert.False(t, eval.CanBorrow(user, models.Category("VINYL"), time.Now()))
}

func TestCustomRules(t *testing.T) {
	rules := Rules{
		AdultAge:   12,
		Books:      CategoryLimits{FirstYear: 1, SecondYear: 1, After: 1},
		MinorBooks: 1,
		DVDs:       CategoryLimits{FirstYear: 1, SecondYear: 1, After: 1},
	}
	eval := NewEvaluator(rules)

	fresh := testUser(0, 30, nil)
	assert.True(t, eval.CanBorrow(fresh, models.CategoryBook, time.Now()))

	atCap := testUser(0, 30, map[models.Category]int{models.CategoryBook: 1})
	assert.False(t, eval.CanBorrow(atCap, models.CategoryBook, time.Now()))
}

func TestWholeYears(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, wholeYears(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 1, wholeYears(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), now))
	// One day short of the anniversary still counts as the previous year.
	assert.Equal(t, 0, wholeYears(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 12, wholeYears(time.Date(2014, 6, 15, 0, 0, 0, 0, time.UTC), now))
}

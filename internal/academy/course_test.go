package academy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCourseInput_Course(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	c := CourseInput{Title: "Wellness Coach Basics", Modules: 8, Certificate: true}.Course("c-1", now)

	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, 8, c.Modules)
	assert.True(t, c.Certificate)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 40, Course{OriginalPrice: 5000, DiscountedPrice: 3000}.DiscountPercent())
	assert.Equal(t, 0, Course{OriginalPrice: 5000}.DiscountPercent())
	assert.Equal(t, 0, Course{OriginalPrice: 100, DiscountedPrice: 120}.DiscountPercent())
	assert.Equal(t, 0, Course{}.DiscountPercent())
	assert.Equal(t, 29, Course{OriginalPrice: 100, DiscountedPrice: 71}.DiscountPercent())
}

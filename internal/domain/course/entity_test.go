package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

func TestCourse_Validate(t *testing.T) {
	c := Course{Code: " cs101 ", Name: "Introduction to Programming", Credits: 4}
	require.NoError(t, c.Validate())
	assert.Equal(t, "CS101", c.Code)

	assert.True(t, shared.IsValidation((&Course{Name: "Physics", Credits: 3}).Validate()))
	assert.True(t, shared.IsValidation((&Course{Code: "PH1", Name: "P", Credits: 3}).Validate()))
	assert.True(t, shared.IsValidation((&Course{Code: "PH1", Name: "Physics", Credits: 0}).Validate()))
}

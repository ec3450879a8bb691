package student

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-hub/grading-system/internal/domain/shared"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestStudent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		student Student
		wantErr bool
	}{
		{"valid minimal", Student{Name: "Al", Email: "al@uni.edu"}, false},
		{"valid full", Student{Name: "Alice", Email: "a@u.edu", Age: intPtr(20), Major: strPtr("CS"), GPA: floatPtr(3.8)}, false},
		{"short name", Student{Name: " A ", Email: "a@u.edu"}, true},
		{"email without at", Student{Name: "Alice", Email: "alice.u.edu"}, true},
		{"too young", Student{Name: "Alice", Email: "a@u.edu", Age: intPtr(15)}, true},
		{"too old", Student{Name: "Alice", Email: "a@u.edu", Age: intPtr(101)}, true},
		{"gpa above scale", Student{Name: "Alice", Email: "a@u.edu", GPA: floatPtr(4.1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.student.Validate()
			if tt.wantErr {
				assert.True(t, shared.IsValidation(err), "want validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStudent_ValidateNormalizes(t *testing.T) {
	s := Student{Name: "  Bob Smith ", Email: " bob@u.edu ", Major: strPtr("   ")}

	assert.NoError(t, s.Validate())
	assert.Equal(t, "Bob Smith", s.Name)
	assert.Equal(t, "bob@u.edu", s.Email)
	assert.Nil(t, s.Major)
}

func TestIndex(t *testing.T) {
	idx := Index([]Student{{ID: 2, Name: "Bob"}, {ID: 1, Name: "Alice"}})

	assert.Len(t, idx, 2)
	assert.Equal(t, "Alice", idx[1].Name)
}

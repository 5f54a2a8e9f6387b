package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"

	"github.com/eduportal/backend/internal/models"
)

func TestCourseInputValidation(t *testing.T) {
	v := New()
	tests := []struct {
		name    string
		input   models.CourseInput
		message string
	}{
		{"valid", models.CourseInput{CourseName: "Networks", Faculty: "Prof. Nair", Time: "Thu 9:00 AM"}, ""},
		{"missing name", models.CourseInput{Faculty: "Prof. Nair", Time: "Thu 9:00 AM"}, "Course name is required."},
		{"missing faculty", models.CourseInput{CourseName: "Networks", Time: "Thu 9:00 AM"}, "Faculty is required."},
		{"bad time", models.CourseInput{CourseName: "Networks", Faculty: "Prof. Nair", Time: "sometime"}, CourseTimeHint},
	}
	for _, tt := range tests {
		err := v.Struct(tt.input)
		if tt.message == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: expected validation error", tt.name)
			continue
		}
		if got := Message(err); got != tt.message {
			t.Errorf("%s: Message = %q, want %q", tt.name, got, tt.message)
		}
	}
}

func TestSignupValidation(t *testing.T) {
	v := New()
	err := v.Struct(models.SignupInput{Name: "Ana", Email: "not-an-email", Password: "x"})
	if err == nil {
		t.Fatal("expected invalid email to fail")
	}
	if got := Message(err); got != "Enter a valid email address." {
		t.Errorf("Message = %q", got)
	}
}

func TestRegisterGin(t *testing.T) {
	if err := RegisterGin(); err != nil {
		t.Fatalf("RegisterGin: %v", err)
	}
	type req struct {
		Time string `binding:"required,coursetime"`
	}
	if err := binding.Validator.ValidateStruct(req{Time: "Mon 9 AM"}); err != nil {
		t.Errorf("valid time rejected: %v", err)
	}
	err := binding.Validator.ValidateStruct(req{Time: "whenever"})
	if err == nil {
		t.Fatal("invalid time accepted")
	}
	if got := Message(err); got != CourseTimeHint {
		t.Errorf("Message = %q", got)
	}
}

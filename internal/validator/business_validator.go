package validator

import (
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate, now: time.Now}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseForPublish checks that a course has enough content to be listed
func (bv *BusinessValidator) ValidateCourseForPublish(course *models.Course) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(course.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "is required to publish", Rule: "publish"})
	}
	if len(course.Modules) == 0 {
		errs = append(errs, ValidationError{Field: "modules", Message: "must contain at least one module", Rule: "publish"})
	} else if course.TotalLessons() == 0 {
		errs = append(errs, ValidationError{Field: "modules", Message: "must contain at least one lesson", Rule: "publish"})
	}

	return errs
}

// ValidateModules checks module and lesson ids are present and unique
func (bv *BusinessValidator) ValidateModules(modules []ModuleRequest) ValidationErrors {
	var errs ValidationErrors
	seenModules := make(map[string]bool)
	seenLessons := make(map[string]bool)

	for _, m := range modules {
		if m.ID != "" {
			if seenModules[m.ID] {
				errs = append(errs, ValidationError{Field: "modules", Message: "module ids must be unique", Value: m.ID, Rule: "unique"})
			}
			seenModules[m.ID] = true
		}
		for _, l := range m.Lessons {
			if l.ID == "" {
				continue
			}
			if seenLessons[l.ID] {
				errs = append(errs, ValidationError{Field: "lessons", Message: "lesson ids must be unique", Value: l.ID, Rule: "unique"})
			}
			seenLessons[l.ID] = true
		}
	}

	return errs
}

// ValidateStatusTransition validates a course status change
func (bv *BusinessValidator) ValidateStatusTransition(course *models.Course, newStatus models.CourseStatus) ValidationErrors {
	if course.Status == newStatus {
		return ValidationErrors{{Field: "status", Message: "course already has this status", Value: newStatus, Rule: "transition"}}
	}
	if newStatus == models.CoursePublished {
		return bv.ValidateCourseForPublish(course)
	}
	return nil
}

// ValidateStudentOnboarding checks the wizard collected what recommendations need
func (bv *BusinessValidator) ValidateStudentOnboarding(p *models.StudentProfile) ValidationErrors {
	var errs ValidationErrors
	if len(p.Interests) == 0 {
		errs = append(errs, ValidationError{Field: "interests", Message: "must contain at least one interest", Rule: "onboarding"})
	}
	if p.EducationLevel == "" {
		errs = append(errs, ValidationError{Field: "education_level", Message: "is required", Rule: "onboarding"})
	}
	if p.LearningStyle == "" {
		errs = append(errs, ValidationError{Field: "learning_style", Message: "is required", Rule: "onboarding"})
	}
	return errs
}

func (bv *BusinessValidator) ValidateEducatorOnboarding(p *models.EducatorProfile) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(p.Headline) == "" {
		errs = append(errs, ValidationError{Field: "headline", Message: "is required", Rule: "onboarding"})
	}
	if strings.TrimSpace(p.Bio) == "" {
		errs = append(errs, ValidationError{Field: "bio", Message: "is required", Rule: "onboarding"})
	}
	if len(p.Expertise) == 0 {
		errs = append(errs, ValidationError{Field: "expertise", Message: "must contain at least one area", Rule: "onboarding"})
	}
	return errs
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Roles a user may pick at sign-up
	bv.validate.RegisterValidation("signup_role", func(fl validator.FieldLevel) bool {
		role := models.UserRole(fl.Field().String())
		return role == models.RoleStudent || role == models.RoleEducator
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		switch models.CourseLevel(fl.Field().String()) {
		case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		switch models.CourseStatus(fl.Field().String()) {
		case models.CourseDraft, models.CoursePublished, models.CourseArchived:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("learning_style", func(fl validator.FieldLevel) bool {
		switch models.LearningStyle(fl.Field().String()) {
		case models.StyleVisual, models.StyleAuditory, models.StyleReading, models.StyleKinesthetic:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("mood_type", func(fl validator.FieldLevel) bool {
		mood := models.MoodType(fl.Field().String())
		for _, m := range models.AllMoods {
			if m == mood {
				return true
			}
		}
		return false
	})

	bv.validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	})

	// Calendar day (UTC) not after today
	bv.validate.RegisterValidation("not_future_date", func(fl validator.FieldLevel) bool {
		day, err := time.Parse(models.DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		return !day.After(models.Day(bv.now()))
	})

	bv.validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		if len(pw) < 8 || len(pw) > 72 {
			return false
		}
		var letter, digit bool
		for _, r := range pw {
			switch {
			case unicode.IsLetter(r):
				letter = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return letter && digit
	})

	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Package project validates the project create/edit form.
package project

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"tasklog/worklog"
)

const MaxCodeLength = 16

var (
	nameInvalidChars    = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]+`)
	codeInvalidChars    = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	codeDerivationChars = regexp.MustCompile(`[^A-Z0-9_]+`)
)

// Form holds the user-editable project fields.
type Form struct {
	Name        string `validate:"required,projectname"`
	Code        string `validate:"required,projectcode,max=16"`
	Type        string
	Status      string `validate:"required"`
	FPS         int    `validate:"gt=0"`
	ImageFormat string
	ImageWidth  int `validate:"gte=0"`
	ImageHeight int `validate:"gte=0"`
	Repository  string
	Structure   string
}

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(field), e[field]))
	}
	return "invalid project: " + strings.Join(parts, "; ")
}

// DeriveCode fills the code field from a typed name: everything except
// upper-case letters, digits and underscores is dropped.
func DeriveCode(name string) string {
	return codeDerivationChars.ReplaceAllString(name, "")
}

type Validator struct {
	validate *validator.Validate
	statuses []string
}

func NewValidator(statuses []string) *Validator {
	validate := validator.New()
	mustRegister(validate, "projectname", func(fl validator.FieldLevel) bool {
		return !nameInvalidChars.MatchString(fl.Field().String())
	})
	mustRegister(validate, "projectcode", func(fl validator.FieldLevel) bool {
		return !codeInvalidChars.MatchString(fl.Field().String())
	})
	return &Validator{validate: validate, statuses: statuses}
}

// mustRegister panics on a malformed tag; the tags are fixed at compile time.
func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks the form and returns FieldErrors with one message per
// offending field.
func (v *Validator) Validate(form Form) error {
	errs := FieldErrors{}

	if err := v.validate.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("validate project form: %w", err)
		}
		for _, fieldErr := range validationErrors {
			if _, exists := errs[fieldErr.Field()]; exists {
				continue
			}
			errs[fieldErr.Field()] = messageFor(fieldErr)
		}
	}

	if _, exists := errs["Status"]; !exists && !v.knownStatus(form.Status) {
		errs["Status"] = fmt.Sprintf("Unknown status %q", form.Status)
	}
	if (form.ImageWidth == 0) != (form.ImageHeight == 0) {
		errs["ImageWidth"] = "Enter both width and height"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) knownStatus(status string) bool {
	for _, known := range v.statuses {
		if strings.EqualFold(known, status) {
			return true
		}
	}
	return false
}

func messageFor(fieldErr validator.FieldError) string {
	switch fieldErr.Field() + "." + fieldErr.Tag() {
	case "Name.required":
		return "Enter a name"
	case "Code.required":
		return "Enter a code"
	case "Name.projectname", "Code.projectcode":
		return "Invalid character"
	case "Code.max":
		return fmt.Sprintf("Code is too long (>%d)", MaxCodeLength)
	case "Status.required":
		return "Select a status"
	case "FPS.gt":
		return "FPS must be greater than 0"
	default:
		return fmt.Sprintf("failed on %q", fieldErr.Tag())
	}
}

// Apply copies the form into project, keeping ID and timestamps.
func (f Form) Apply(project *worklog.Project) {
	project.Name = strings.TrimSpace(f.Name)
	project.Code = strings.TrimSpace(f.Code)
	project.Type = strings.TrimSpace(f.Type)
	project.Status = strings.ToUpper(strings.TrimSpace(f.Status))
	project.FPS = f.FPS
	project.ImageFormat = worklog.ImageFormat{
		Name:   strings.TrimSpace(f.ImageFormat),
		Width:  f.ImageWidth,
		Height: f.ImageHeight,
	}
	project.Repository = strings.TrimSpace(f.Repository)
	project.Structure = strings.TrimSpace(f.Structure)
}

// FormFromProject fills a form for editing an existing project.
func FormFromProject(project worklog.Project) Form {
	return Form{
		Name:        project.Name,
		Code:        project.Code,
		Type:        project.Type,
		Status:      project.Status,
		FPS:         project.FPS,
		ImageFormat: project.ImageFormat.Name,
		ImageWidth:  project.ImageFormat.Width,
		ImageHeight: project.ImageFormat.Height,
		Repository:  project.Repository,
		Structure:   project.Structure,
	}
}

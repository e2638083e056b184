package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/battlepets/engine/pkg/errors"
)

// Validator wraps the go-playground validator
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations(v)

	return &Validator{
		validator: v,
	}
}

// registerCustomValidations registers custom validation rules
func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("petnickname", validatePetNickname)
	_ = v.RegisterValidation("family", validateFamily)
	_ = v.RegisterValidation("rarity", validateRarity)
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// ValidateRequest validates and decodes a request body
func (v *Validator) ValidateRequest(r *http.Request, dst interface{}) error {
	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewBadRequestError("Request body is empty")
		}
		return errors.NewBadRequestError("Invalid JSON format").WithInternal(err)
	}

	// Validate struct
	return v.Validate(dst)
}

// formatValidationError formats validation errors into AppError
func (v *Validator) formatValidationError(err error) error {
	validationErrors := &errors.ValidationErrors{}

	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()
			param := fe.Param()

			message := v.getErrorMessage(field, tag, param)
			validationErrors.Add(field, message)
		}
	}

	return validationErrors.ToAppError()
}

// getErrorMessage returns a user-friendly error message
func (v *Validator) getErrorMessage(field, tag, param string) string {
	messages := map[string]string{
		"required":     fmt.Sprintf("%s is required", field),
		"min":          fmt.Sprintf("%s must be at least %s characters long", field, param),
		"max":          fmt.Sprintf("%s must be at most %s characters long", field, param),
		"email":        fmt.Sprintf("%s must be a valid email address", field),
		"oneof":        fmt.Sprintf("%s must be one of: %s", field, param),
		"numeric":      fmt.Sprintf("%s must be a number", field),
		"alphanum":     fmt.Sprintf("%s must contain only letters and numbers", field),
		"petnickname":  fmt.Sprintf("%s must be a valid pet nickname (2-24 characters, letters, spaces, hyphens, and apostrophes only)", field),
		"family":       fmt.Sprintf("%s must be a valid creature family", field),
		"rarity":       fmt.Sprintf("%s must be between 1 (common) and 4 (legendary)", field),
	}

	if msg, ok := messages[tag]; ok {
		return msg
	}

	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// Custom validation functions

// validatePetNickname validates player-chosen pet nicknames
func validatePetNickname(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) < 2 || len(name) > 24 {
		return false
	}

	// Allow letters, spaces, hyphens, and apostrophes
	for _, char := range name {
		valid := (char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			char == ' ' || char == '-' || char == '\''
		if !valid {
			return false
		}
	}

	return true
}

// validFamilies mirrors internal/battle's ten-family type chart by name,
// kept as plain strings here since pkg/validation doesn't import the
// battle engine.
var validFamilies = map[string]bool{
	"humanoid": true, "undead": true, "critter": true, "beast": true,
	"mechanical": true, "elemental": true, "aquatic": true, "flying": true,
	"magic": true, "dragonkin": true,
}

// validateFamily validates a creature family name
func validateFamily(fl validator.FieldLevel) bool {
	return validFamilies[strings.ToLower(fl.Field().String())]
}

// validateRarity validates rarity tiers (1 common - 4 legendary)
func validateRarity(fl validator.FieldLevel) bool {
	rarity := fl.Field().Int()
	return rarity >= 1 && rarity <= 4
}

// Request DTOs with validation tags

// CreatePetRequest represents a request to add a pet to an owner's roster
type CreatePetRequest struct {
	Nickname  string `json:"nickname" validate:"required,petnickname"`
	SpeciesID int    `json:"species_id" validate:"required,min=1"`
	Family    string `json:"family" validate:"required,family"`
	Breed     int    `json:"breed" validate:"min=0,max=15"`
	Rarity    int    `json:"rarity" validate:"required,rarity"`
	Level     int    `json:"level" validate:"required,min=1,max=25"`
}

// RenamePetRequest represents a request to rename an existing pet
type RenamePetRequest struct {
	Nickname string `json:"nickname" validate:"required,petnickname"`
}

// Global validator instance
var defaultValidator *Validator

// Init initializes the global validator
func Init() {
	defaultValidator = New()
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if defaultValidator == nil {
		Init()
	}
	return defaultValidator
}

// ValidateStruct validates a struct using the global validator
func ValidateStruct(s interface{}) error {
	return GetValidator().Validate(s)
}

// ValidateRequestBody validates and decodes a request body using the global validator
func ValidateRequestBody(r *http.Request, dst interface{}) error {
	return GetValidator().ValidateRequest(r, dst)
}

package kiosk

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hackgods/hospital-kiosk/internal/registry"
)

const (
	IdentityNumberLength = 12
	PhoneNumberLength    = 10
	DefaultGender        = "Male"
)

type IdentityOutcome string

const (
	IdentityKnown       IdentityOutcome = "known"
	IdentityPrefillable IdentityOutcome = "prefillable"
	IdentityUnknown     IdentityOutcome = "unknown"
)

// IdentityResolution is the result of classifying an identity number.
// Patient is set only for IdentityKnown; Draft is set otherwise.
type IdentityResolution struct {
	Outcome IdentityOutcome    `json:"outcome"`
	Patient *Patient           `json:"patient,omitempty"`
	Draft   *RegistrationDraft `json:"draft,omitempty"`
}

// IdentityRegistry is the static reference lookup used for pre-fill.
type IdentityRegistry interface {
	Lookup(number string) (registry.Identity, bool)
}

type Resolver struct {
	patients PatientStore
	registry IdentityRegistry
}

func NewResolver(patients PatientStore, reg IdentityRegistry) *Resolver {
	return &Resolver{patients: patients, registry: reg}
}

// Resolve classifies number as a known patient, a registry identity that can
// pre-fill the form, or an unknown number. The only error is
// ErrStoreUnavailable when the patient store cannot be queried.
func (r *Resolver) Resolve(ctx context.Context, number string) (IdentityResolution, error) {
	p, err := r.patients.FindPatientByAadhaar(ctx, number)
	switch {
	case err == nil:
		return IdentityResolution{Outcome: IdentityKnown, Patient: p}, nil
	case !errors.Is(err, ErrPatientNotFound):
		return IdentityResolution{}, unavailable("find patient by aadhaar", err)
	}

	if id, ok := r.registry.Lookup(number); ok {
		return IdentityResolution{
			Outcome: IdentityPrefillable,
			Draft: &RegistrationDraft{
				Aadhaar: number,
				Name:    id.Name,
				Age:     strconv.Itoa(id.Age),
				Gender:  id.Gender,
				Phone:   id.Phone,
			},
		}, nil
	}

	return IdentityResolution{
		Outcome: IdentityUnknown,
		Draft:   &RegistrationDraft{Aadhaar: number, Gender: DefaultGender},
	}, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type registrationForm struct {
	Name  string `validate:"required"`
	Phone string `validate:"required,len=10,number"`
	Age   string `validate:"omitempty,number,max=3"`
}

// ValidateIdentityNumber checks the 12-digit Aadhaar shape.
func ValidateIdentityNumber(number string) error {
	if err := validate.Var(number, "len=12,number"); err != nil {
		return invalid("aadhaar", "Please enter all 12 digits")
	}
	return nil
}

// ValidatePhone checks a 10-digit mobile number.
func ValidatePhone(phone string) error {
	if err := validate.Var(phone, "len=10,number"); err != nil {
		return invalid("phone", "Please enter 10 digit mobile number")
	}
	return nil
}

// ValidateRegistration checks a submitted draft and builds the patient to
// persist from it.
func ValidateRegistration(d RegistrationDraft) (Patient, error) {
	form := registrationForm{
		Name:  strings.TrimSpace(d.Name),
		Phone: strings.TrimSpace(d.Phone),
		Age:   strings.TrimSpace(d.Age),
	}
	if err := validate.Struct(form); err != nil {
		return Patient{}, registrationError(err)
	}

	age := 0
	if form.Age != "" {
		n, err := strconv.Atoi(form.Age)
		if err != nil || validate.Var(n, "lte=150") != nil {
			return Patient{}, invalid("age", "Please enter a valid age")
		}
		age = n
	}

	gender := strings.TrimSpace(d.Gender)
	if gender == "" {
		gender = DefaultGender
	}

	return Patient{
		Aadhaar: d.Aadhaar,
		Name:    form.Name,
		Age:     age,
		Gender:  gender,
		Phone:   form.Phone,
	}, nil
}

// registrationError reports the first failing form field the way the
// registration screen shows it.
func registrationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return invalid("form", err.Error())
	}
	fe := fields[0]
	switch {
	case fe.Tag() == "required":
		return invalid("form", "Name and phone are required")
	case fe.Field() == "Phone":
		return invalid("phone", "Please enter 10 digit mobile number")
	default:
		return invalid("age", "Please enter a valid age")
	}
}

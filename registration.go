package devcard

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	userIdPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	accountIdPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)
	xIdPattern       = regexp.MustCompile(`^[a-zA-Z0-9_]*$`)
)

// Messages shown next to the offending form field, keyed by validation tag.
var validationMessages = map[string]string{
	"required":   "required",
	"notblank":   "required",
	"user_id":    "only letters, digits, hyphens and underscores",
	"account_id": "only letters, digits and hyphens",
	"x_id":       "only letters, digits and underscores",
}

const skillNotSelectedMessage = "select a skill"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("register validation `" + tag + "`: " + err.Error())
		}
	}
	mustRegister("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister("user_id", matches(userIdPattern))
	mustRegister("account_id", matches(accountIdPattern))
	mustRegister("x_id", matches(xIdPattern))
	return v
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

// Registration is the raw input of the registration form.
// Empty optional account ids mean "no account".
type Registration struct {
	UserId      string `json:"userId" validate:"required,user_id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	SkillId     string `json:"skillId" validate:"required"`
	GithubId    string `json:"githubId" validate:"account_id"`
	QiitaId     string `json:"qiitaId" validate:"account_id"`
	XId         string `json:"xId" validate:"x_id"`
}

// Validate checks everything that does not need the store.
// Returns nil or *ValidationError.
func (r Registration) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return &ValidationError{Fields: map[string]string{"": err.Error()}}
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrors {
		message, ok := validationMessages[fe.Tag()]
		if !ok {
			message = "invalid"
		}
		verr.add(fe.Field(), message)
	}
	return verr
}

func (r Registration) profile() Profile {
	return Profile{
		UserId:      UserId(r.UserId),
		Name:        r.Name,
		Description: r.Description,
		GithubId:    optional(r.GithubId),
		QiitaId:     optional(r.QiitaId),
		XId:         optional(r.XId),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Registrar persists new profiles together with their single skill link.
type Registrar struct {
	Profiles ProfileStore
	Skills   SkillStore
}

// Register returns *ValidationError without touching the store when the input is
// malformed, *FetchError when the skill list cannot be loaded and *WriteError when an
// insert is rejected.
func (r *Registrar) Register(ctx context.Context, reg Registration) (UserId, error) {
	if err := reg.Validate(); err != nil {
		return "", err
	}

	skills, err := r.Skills.All(ctx)
	if err != nil {
		return "", &FetchError{Op: "skills", Err: err}
	}
	skillId, ok := selectedSkill(skills, reg.SkillId)
	if !ok {
		return "", &ValidationError{Fields: map[string]string{"skillId": skillNotSelectedMessage}}
	}

	profile := reg.profile()
	if err := r.Profiles.Register(ctx, profile, skillId); err != nil {
		var writeErr *WriteError
		if errors.As(err, &writeErr) {
			return "", err
		}
		return "", &WriteError{Op: "register profile", Err: err}
	}
	return profile.UserId, nil
}

// selectedSkill resolves the submitted option value against the loaded skill list.
func selectedSkill(skills []Skill, value string) (SkillId, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	for _, s := range skills {
		if s.Id == SkillId(id) {
			return s.Id, true
		}
	}
	return 0, false
}

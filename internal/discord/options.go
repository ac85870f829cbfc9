package discord

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"monke-bot/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

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
	return v
}

type GameOptions struct {
	Game string `json:"game" validate:"required,oneof=league tft"`
}

func (o GameOptions) Kind() domain.GameKind {
	return domain.GameKind(o.Game)
}

// PlayerOptions identifies a player by Riot ID. Tag lines may carry the
// leading '#'.
type PlayerOptions struct {
	GameOptions
	GameName string `json:"game_name" validate:"required,max=32"`
	TagLine  string `json:"tag_line" validate:"required,max=6"`
}

type RecapOptions struct {
	PlayerOptions
	Yesterday bool `json:"yesterday"`
}

// DecodeOptions maps the command's options onto v by name and validates
// the result. Every failure wraps domain.ErrInvalidInput.
func DecodeOptions(data *CommandData, v any) error {
	fields := make(map[string]json.RawMessage)
	if data != nil {
		for _, o := range data.Options {
			if len(o.Value) > 0 {
				fields[o.Name] = o.Value
			}
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: failed to encode options: %v", domain.ErrInvalidInput, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: malformed options", domain.ErrInvalidInput)
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describe(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

// CommandService serves the write paths: inputs are trimmed and validated
// before they reach the database.
type CommandService struct {
	repo     domain.Repository
	validate *validator.Validate
}

func NewCommandService(r domain.Repository) *CommandService {
	return &CommandService{repo: r, validate: validator.New()}
}

func (s *CommandService) AddUser(ctx context.Context, u domain.NewUser) (domain.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if err := s.check(u); err != nil {
		return domain.User{}, err
	}

	out, err := s.repo.AddUser(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	// never log the password
	log.Info().Int64("id", out.ID).Str("email", out.Email).Msg("user added")
	return out, nil
}

func (s *CommandService) AddProperty(ctx context.Context, p domain.NewProperty) (domain.Property, error) {
	for _, f := range []*string{
		&p.Title, &p.ThumbnailPhotoURL, &p.CoverPhotoURL,
		&p.Country, &p.Street, &p.City, &p.Province, &p.PostCode,
	} {
		*f = strings.TrimSpace(*f)
	}
	if err := s.check(p); err != nil {
		return domain.Property{}, err
	}

	out, err := s.repo.AddProperty(ctx, p)
	if err != nil {
		return domain.Property{}, err
	}
	log.Info().Int64("id", out.ID).Int64("owner_id", out.OwnerID).Str("city", out.City).Msg("property added")
	return out, nil
}

// check runs struct validation and reports failures as domain.ErrInvalid.
func (s *CommandService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalid, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalid, err)
}

package people

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/mirror"
	"github.com/minischetti/meal-planner-api/pkg/store"
	"github.com/minischetti/meal-planner-api/pkg/validation"
)

type (
	PeopleService interface {
		CreatePerson(ctx context.Context, req domain.CreatePersonRequest) (entities.Person, error)
		GetPerson(ctx context.Context, id string) (entities.Person, error)
		UpdatePerson(ctx context.Context, id string, req domain.UpdatePersonRequest) (entities.Person, error)
		GetRecipes(ctx context.Context, id string) ([]entities.Recipe, error)
		GetGroups(ctx context.Context, id string) ([]entities.Group, error)
		GetInvites(ctx context.Context, id string) ([]entities.RecipientInvite, error)
		AnswerInvite(ctx context.Context, person, invite string, answer bool) error
	}

	peopleService struct {
		peopleRepository PeopleRepository
		store            store.Store
	}
)

func NewPeopleService(peopleRepository PeopleRepository, st store.Store) PeopleService {
	return &peopleService{
		peopleRepository: peopleRepository,
		store:            st,
	}
}

func (s *peopleService) CreatePerson(ctx context.Context, req domain.CreatePersonRequest) (entities.Person, error) {
	if !validation.NonEmptyString(req.Name) && !validation.NonEmptyString(req.FirstName) {
		return entities.Person{}, domain.NewValidationError(domain.SecondaryName, "name or firstName is required")
	}
	person := entities.Person{
		ID:        req.ID,
		Name:      strings.TrimSpace(req.Name),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if person.Name == "" {
		person.Name = strings.TrimSpace(person.FirstName + " " + person.LastName)
	}
	if err := s.peopleRepository.CreatePerson(ctx, person); err != nil {
		return entities.Person{}, err
	}
	return person, nil
}

func (s *peopleService) GetPerson(ctx context.Context, id string) (entities.Person, error) {
	return s.peopleRepository.GetPerson(ctx, id)
}

func (s *peopleService) UpdatePerson(ctx context.Context, id string, req domain.UpdatePersonRequest) (entities.Person, error) {
	var fields []store.Update
	if req.Name != nil {
		fields = append(fields, store.Update{Path: "name", Value: strings.TrimSpace(*req.Name)})
	}
	if req.FirstName != nil {
		fields = append(fields, store.Update{Path: "firstName", Value: strings.TrimSpace(*req.FirstName)})
	}
	if req.LastName != nil {
		fields = append(fields, store.Update{Path: "lastName", Value: strings.TrimSpace(*req.LastName)})
	}
	if req.Email != nil {
		fields = append(fields, store.Update{Path: "email", Value: strings.ToLower(strings.TrimSpace(*req.Email))})
	}
	if len(fields) == 0 {
		return entities.Person{}, domain.NewValidationError("", "nothing to update")
	}
	if err := s.peopleRepository.UpdatePerson(ctx, id, fields...); err != nil {
		return entities.Person{}, err
	}
	return s.peopleRepository.GetPerson(ctx, id)
}

func (s *peopleService) GetRecipes(ctx context.Context, id string) ([]entities.Recipe, error) {
	mirrors, err := s.peopleRepository.GetRecipeMirrors(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(mirrors) {
		return nil, domain.ErrEmpty
	}
	return s.peopleRepository.GetRecipes(ctx, ids(mirrors))
}

func (s *peopleService) GetGroups(ctx context.Context, id string) ([]entities.Group, error) {
	mirrors, err := s.peopleRepository.GetGroupMirrors(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(mirrors) {
		return nil, domain.ErrEmpty
	}
	return s.peopleRepository.GetGroups(ctx, ids(mirrors))
}

func (s *peopleService) GetInvites(ctx context.Context, id string) ([]entities.RecipientInvite, error) {
	invites, err := s.peopleRepository.GetInvites(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(invites) {
		return nil, domain.ErrEmpty
	}
	return invites, nil
}

// AnswerInvite closes both copies of the invite and, on acceptance, adds the person to the group
// in the same transaction.
func (s *peopleService) AnswerInvite(ctx context.Context, person, invite string, answer bool) error {
	err := mirror.SyncWithin(ctx, s.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		snap, err := tx.Get(entities.PersonInvites(person).Doc(invite))
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrEmpty
		}
		if err != nil {
			return nil, err
		}
		var inv entities.RecipientInvite
		if err := snap.DataTo(&inv); err != nil {
			return nil, err
		}
		if !inv.Active {
			return nil, domain.NewValidationError(domain.SecondaryInvites, "invite was already answered")
		}

		groupSide, personSide := mirror.InviteAnswer(invite, inv.Group, person, answer)
		writes, err := mirror.Pair(mirror.Update, groupSide, personSide)
		if err != nil {
			return nil, err
		}
		if answer {
			member, mirrored := mirror.GroupMembership(inv.Group, person, domain.RoleMember)
			join, err := mirror.Pair(mirror.Create, member, mirrored)
			if err != nil {
				return nil, err
			}
			writes = append(writes, join...)
		}
		return writes, nil
	})
	if err != nil {
		return fmt.Errorf("people: answering invite %s: %w", invite, err)
	}
	return nil
}

func ids(mirrors []entities.Association) []string {
	out := make([]string, len(mirrors))
	for i, m := range mirrors {
		out[i] = m.ID
	}
	return out
}

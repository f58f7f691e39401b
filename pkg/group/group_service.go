package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/internal/utils/mailing"
	"github.com/minischetti/meal-planner-api/pkg/store"
	"github.com/minischetti/meal-planner-api/pkg/validation"
)

type (
	GroupService interface {
		CreateGroup(ctx context.Context, req domain.CreateGroupRequest) (entities.Group, error)
		GetGroups(ctx context.Context) ([]entities.Group, error)
		GetGroup(ctx context.Context, id string) (entities.Group, error)
		GetMembers(ctx context.Context, id string) ([]domain.Member, error)
		GetInvites(ctx context.Context, id string) ([]entities.SenderInvite, error)
		SendInvite(ctx context.Context, id string, req domain.SendInviteRequest) (entities.SenderInvite, error)
		GetRecipes(ctx context.Context, id string) ([]entities.Recipe, error)
		LinkRecipe(ctx context.Context, id string, req domain.LinkRecipeRequest) error
		UnlinkRecipe(ctx context.Context, id, recipeID string) error
	}

	groupService struct {
		groupRepository GroupRepository
		mailer          mailing.Mailer
		appURL          string
	}
)

func NewGroupService(groupRepository GroupRepository, mailer mailing.Mailer, appURL string) GroupService {
	return &groupService{
		groupRepository: groupRepository,
		mailer:          mailer,
		appURL:          appURL,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, req domain.CreateGroupRequest) (entities.Group, error) {
	if !validation.NonEmptyString(req.Name) {
		return entities.Group{}, domain.NewValidationError(domain.SecondaryName, "name is required")
	}
	if !validation.NonEmptyString(req.Description) || !validation.NonEmptyString(req.ProfileID) {
		return entities.Group{}, domain.NewValidationError("", "description and profileId are required")
	}

	members := []entities.GroupMember{{ID: req.ProfileID, Role: domain.RoleOwner}}
	seen := map[string]bool{req.ProfileID: true}
	for _, m := range req.Members {
		role := m.Role
		if role == "" {
			role = domain.RoleMember
		}
		if !role.IsGroupRole() || role == domain.RoleOwner {
			return entities.Group{}, domain.NewValidationError(domain.SecondaryGroupMembers, fmt.Sprintf("invalid role %q for %s", m.Role, m.ID))
		}
		if !validation.NonEmptyString(m.ID) || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		members = append(members, entities.GroupMember{ID: m.ID, Role: role})
	}

	group := entities.Group{
		ID:          entities.Groups.NewDoc().ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Owner:       req.ProfileID,
	}
	if err := s.groupRepository.CreateGroup(ctx, group, members); err != nil {
		return entities.Group{}, err
	}
	return group, nil
}

func (s *groupService) GetGroups(ctx context.Context) ([]entities.Group, error) {
	groups, err := s.groupRepository.GetGroups(ctx)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(groups) {
		return nil, domain.ErrEmpty
	}
	return groups, nil
}

func (s *groupService) GetGroup(ctx context.Context, id string) (entities.Group, error) {
	return s.groupRepository.GetGroup(ctx, id)
}

// GetMembers merges each membership with the member's person document. Members whose person
// document is gone are returned with their id and role only.
func (s *groupService) GetMembers(ctx context.Context, id string) ([]domain.Member, error) {
	members, err := s.groupRepository.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(members) {
		return nil, domain.ErrEmpty
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	people, err := s.groupRepository.GetPeople(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entities.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	out := make([]domain.Member, len(members))
	for i, m := range members {
		p := byID[m.ID]
		out[i] = domain.Member{
			Role:           m.Role,
			ID:             m.ID,
			Name:           p.Name,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Email:          p.Email,
			ActiveMealPlan: p.ActiveMealPlan,
		}
	}
	return out, nil
}

func (s *groupService) GetInvites(ctx context.Context, id string) ([]entities.SenderInvite, error) {
	invites, err := s.groupRepository.GetInvites(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(invites) {
		return nil, domain.ErrEmpty
	}
	return invites, nil
}

// SendInvite writes both invite copies in one batch, then notifies the recipient by mail. A mail
// failure does not fail the invite.
func (s *groupService) SendInvite(ctx context.Context, id string, req domain.SendInviteRequest) (entities.SenderInvite, error) {
	if !validation.NonEmptyString(req.Sender) || !validation.NonEmptyString(req.Recipient) {
		return entities.SenderInvite{}, domain.NewValidationError(domain.SecondaryInvites, "sender and recipient are required")
	}
	if req.Sender == req.Recipient {
		return entities.SenderInvite{}, domain.NewValidationError(domain.SecondaryInvites, "cannot invite yourself")
	}

	group, err := s.groupRepository.GetGroup(ctx, id)
	if err != nil {
		return entities.SenderInvite{}, err
	}
	recipient, err := s.groupRepository.GetPerson(ctx, req.Recipient)
	if err != nil {
		return entities.SenderInvite{}, err
	}
	members, err := s.groupRepository.GetMembers(ctx, id)
	if err != nil {
		return entities.SenderInvite{}, err
	}
	for _, m := range members {
		if m.ID == req.Recipient {
			return entities.SenderInvite{}, fmt.Errorf("group: %s is already a member of %s: %w", req.Recipient, id, domain.ErrAlreadyExists)
		}
	}

	invite := entities.SenderInvite{
		ID:        entities.GroupInvites(id).NewDoc().ID,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Group:     id,
		Active:    true,
	}
	if err := s.groupRepository.CreateInvite(ctx, invite); err != nil {
		return entities.SenderInvite{}, err
	}

	if recipient.Email != "" {
		senderName := req.Sender
		if sender, err := s.groupRepository.GetPerson(ctx, req.Sender); err == nil && sender.Name != "" {
			senderName = sender.Name
		}
		body := mailing.InviteBody(s.appURL, group.Name, senderName, recipient.ID, invite.ID)
		if err := s.mailer.SendMail(recipient.Email, domain.MessageInviteSubject, body); err != nil {
			log.Errorw("failed to send invite mail", "invite", invite.ID, "recipient", recipient.ID, "error", err)
		}
	}
	return invite, nil
}

func (s *groupService) GetRecipes(ctx context.Context, id string) ([]entities.Recipe, error) {
	links, err := s.groupRepository.GetLinkedRecipes(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validation.NonEmpty(links) {
		return nil, domain.ErrEmpty
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.RecipeID
	}
	return s.groupRepository.GetRecipes(ctx, ids)
}

func (s *groupService) LinkRecipe(ctx context.Context, id string, req domain.LinkRecipeRequest) error {
	if !validation.NonEmptyString(req.RecipeID) || !validation.NonEmptyString(req.RecipeOwnerID) {
		return domain.NewValidationError(domain.SecondaryRecipes, "recipeId and recipeOwnerId are required")
	}
	err := s.groupRepository.LinkRecipe(ctx, id, entities.GroupRecipe{
		RecipeOwnerID: req.RecipeOwnerID,
		RecipeID:      req.RecipeID,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
	}
	return err
}

func (s *groupService) UnlinkRecipe(ctx context.Context, id, recipeID string) error {
	return s.groupRepository.UnlinkRecipe(ctx, id, recipeID)
}

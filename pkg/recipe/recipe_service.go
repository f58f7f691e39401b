package recipe

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/internal/utils/storage"
	"github.com/minischetti/meal-planner-api/pkg/mirror"
	"github.com/minischetti/meal-planner-api/pkg/permission"
	"github.com/minischetti/meal-planner-api/pkg/store"
	"github.com/minischetti/meal-planner-api/pkg/validation"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (entities.Recipe, error)
		GetRecipe(ctx context.Context, id string) (entities.RecipeWithAssociations, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest) error
		UpdateName(ctx context.Context, id string, req domain.RecipeNameRequest) error
		UpdateAuthors(ctx context.Context, id string, req domain.RecipeAuthorsRequest) error
		UpdateIngredients(ctx context.Context, id string, req domain.RecipeIngredientsRequest) error
		UpdateInstructions(ctx context.Context, id string, req domain.RecipeInstructionsRequest) error
		UploadImage(ctx context.Context, id, profileID string, image *multipart.FileHeader) (string, error)
		AddAssociation(ctx context.Context, id string, req domain.AddAssociationRequest) error
		RemoveAssociation(ctx context.Context, id, profileID string) error
		DeleteRecipe(ctx context.Context, personID, id string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		editor           permission.Editor
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, editor permission.Editor, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		editor:           editor,
		s3:               s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (entities.Recipe, error) {
	if err := checkContent(req.ProfileID, req.Name, req.Ingredients, req.Instructions); err != nil {
		return entities.Recipe{}, err
	}
	recipe := entities.Recipe{
		ID:           entities.Recipes.NewDoc().ID,
		Owner:        req.ProfileID,
		Name:         strings.TrimSpace(req.Name),
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		RecipeYield:  req.RecipeYield,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return entities.Recipe{}, err
	}
	return recipe, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string) (entities.RecipeWithAssociations, error) {
	recipe, err := s.recipeRepository.GetRecipe(ctx, id)
	if err != nil {
		return entities.RecipeWithAssociations{}, err
	}
	associations, err := s.recipeRepository.GetAssociations(ctx, id)
	if err != nil {
		return entities.RecipeWithAssociations{}, err
	}
	return entities.RecipeWithAssociations{Recipe: recipe, Associations: associations}, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest) error {
	if err := checkContent(req.ProfileID, req.Name, req.Ingredients, req.Instructions); err != nil {
		return err
	}
	return s.update(ctx, id, req.ProfileID,
		store.Update{Path: "name", Value: strings.TrimSpace(req.Name)},
		store.Update{Path: "prepTime", Value: req.PrepTime},
		store.Update{Path: "cookTime", Value: req.CookTime},
		store.Update{Path: "recipeYield", Value: req.RecipeYield},
		store.Update{Path: "description", Value: req.Description},
		store.Update{Path: "ingredients", Value: req.Ingredients},
		store.Update{Path: "instructions", Value: req.Instructions},
	)
}

func (s *recipeService) UpdateName(ctx context.Context, id string, req domain.RecipeNameRequest) error {
	if err := checkProfile(req.ProfileID); err != nil {
		return err
	}
	if !validation.NonEmptyString(req.Name) {
		return domain.NewValidationError(domain.SecondaryName, "name is required")
	}
	return s.update(ctx, id, req.ProfileID, store.Update{Path: "name", Value: strings.TrimSpace(req.Name)})
}

func (s *recipeService) UpdateIngredients(ctx context.Context, id string, req domain.RecipeIngredientsRequest) error {
	if err := checkProfile(req.ProfileID); err != nil {
		return err
	}
	if !validation.NonEmpty(req.Ingredients) {
		return domain.NewValidationError(domain.SecondaryIngredients, "at least one ingredient is required")
	}
	return s.update(ctx, id, req.ProfileID, store.Update{Path: "ingredients", Value: req.Ingredients})
}

func (s *recipeService) UpdateInstructions(ctx context.Context, id string, req domain.RecipeInstructionsRequest) error {
	if err := checkProfile(req.ProfileID); err != nil {
		return err
	}
	if !validation.NonEmpty(req.Instructions) {
		return domain.NewValidationError(domain.SecondaryInstructions, "at least one instruction is required")
	}
	return s.update(ctx, id, req.ProfileID, store.Update{Path: "instructions", Value: req.Instructions})
}

// UpdateAuthors replaces the recipe's author list. New authors are mirrored onto their person
// documents and authors that were dropped lose both copies.
func (s *recipeService) UpdateAuthors(ctx context.Context, id string, req domain.RecipeAuthorsRequest) error {
	if err := checkProfile(req.ProfileID); err != nil {
		return err
	}
	if !validation.ValidateAuthors(req.Authors) {
		return domain.NewValidationError(domain.SecondaryAuthors, "authors must include an owner")
	}

	wanted := make(map[string]domain.Role, len(req.Authors))
	order := make([]string, 0, len(req.Authors))
	for _, a := range req.Authors {
		if _, seen := wanted[a.ID]; !seen {
			order = append(order, a.ID)
		}
		wanted[a.ID] = a.Association
	}

	err := s.recipeRepository.Guarded(ctx, id, req.ProfileID, s.editor.CanEdit,
		func(tx store.Tx, recipe entities.Recipe) ([]store.Write, error) {
			snaps, err := tx.List(entities.RecipeAssociations(id))
			if err != nil {
				return nil, err
			}
			current, err := store.DecodeAll[entities.Association](snaps)
			if err != nil {
				return nil, err
			}

			var writes []store.Write
			for _, author := range order {
				person, assoc := mirror.RecipeAuthor(author, id, wanted[author])
				pair, err := mirror.Pair(mirror.Create, person, assoc)
				if err != nil {
					return nil, err
				}
				writes = append(writes, pair...)
			}
			for _, c := range current {
				if _, keep := wanted[c.ID]; keep {
					continue
				}
				person, assoc := mirror.RecipeAuthor(c.ID, id, c.Association)
				pair, err := mirror.Pair(mirror.Delete, person, assoc)
				if err != nil {
					return nil, err
				}
				writes = append(writes, pair...)
			}
			if wanted[recipe.Owner] != domain.RoleOwner {
				writes = append(writes, store.UpdateFields(entities.RecipeDoc(id),
					store.Update{Path: "owner", Value: firstOwner(req.Authors)}))
			}
			return writes, nil
		})
	if err != nil {
		return fmt.Errorf("recipe: updating authors of %s: %w", id, err)
	}
	return nil
}

// UploadImage stores the image and points the recipe at it. The previous image, if any, is
// removed once the recipe has been updated.
func (s *recipeService) UploadImage(ctx context.Context, id, profileID string, image *multipart.FileHeader) (string, error) {
	if err := checkProfile(profileID); err != nil {
		return "", err
	}
	if image == nil {
		return "", domain.NewValidationError("", "image is required")
	}
	noop := func(store.Tx, entities.Recipe) ([]store.Write, error) { return nil, nil }
	if err := s.recipeRepository.Guarded(ctx, id, profileID, s.editor.CanEdit, noop); err != nil {
		return "", fmt.Errorf("recipe: uploading image for %s: %w", id, err)
	}

	objectKey, err := s.s3.UploadFile(ctx, fmt.Sprintf("recipe-%s-%s", id, store.NewID()[:8]), image, "recipes", storage.AllowImage...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	imageURL := s.s3.GetPublicLinkKey(objectKey)

	var previous string
	err = s.recipeRepository.Guarded(ctx, id, profileID, s.editor.CanEdit,
		func(_ store.Tx, recipe entities.Recipe) ([]store.Write, error) {
			previous = recipe.ImageURL
			return []store.Write{store.UpdateFields(entities.RecipeDoc(id), store.Update{Path: "imageUrl", Value: imageURL})}, nil
		})
	if err != nil {
		if derr := s.s3.DeleteFile(ctx, objectKey); derr != nil {
			log.Errorw("failed to remove unused recipe image", "recipe", id, "key", objectKey, "error", derr)
		}
		return "", fmt.Errorf("recipe: uploading image for %s: %w", id, err)
	}
	if previous != "" {
		key := s.s3.GetObjectKeyFromLink(previous)
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			log.Errorw("failed to remove previous recipe image", "recipe", id, "key", key, "error", err)
		}
	}
	return imageURL, nil
}

// AddAssociation links a contributor or subscriber. Ownership only changes through UpdateAuthors.
func (s *recipeService) AddAssociation(ctx context.Context, id string, req domain.AddAssociationRequest) error {
	if err := checkProfile(req.ProfileID); err != nil {
		return err
	}
	if !req.Association.IsRecipeRole() {
		return domain.NewValidationError(domain.SecondaryAuthors, "unknown association")
	}
	if req.Association == domain.RoleOwner {
		return domain.NewValidationError(domain.SecondaryAuthors, "owner cannot be added as an association")
	}
	return s.recipeRepository.AddAssociation(ctx, id, req.ProfileID, req.Association)
}

func (s *recipeService) RemoveAssociation(ctx context.Context, id, profileID string) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	return s.recipeRepository.RemoveAssociation(ctx, id, profileID)
}

// DeleteRecipe removes the recipe together with every association and its person-side mirror.
// Only the owner may do this.
func (s *recipeService) DeleteRecipe(ctx context.Context, personID, id string) error {
	err := s.recipeRepository.Guarded(ctx, id, personID, s.editor.CanDelete,
		func(tx store.Tx, _ entities.Recipe) ([]store.Write, error) {
			snaps, err := tx.List(entities.RecipeAssociations(id))
			if err != nil {
				return nil, err
			}
			current, err := store.DecodeAll[entities.Association](snaps)
			if err != nil {
				return nil, err
			}
			writes := []store.Write{}
			for _, c := range current {
				person, assoc := mirror.RecipeAuthor(c.ID, id, c.Association)
				pair, err := mirror.Pair(mirror.Delete, person, assoc)
				if err != nil {
					return nil, err
				}
				writes = append(writes, pair...)
			}
			return append(writes, store.Delete(entities.RecipeDoc(id))), nil
		})
	if err != nil {
		return fmt.Errorf("recipe: deleting %s: %w", id, err)
	}
	return nil
}

func (s *recipeService) update(ctx context.Context, id, profileID string, fields ...store.Update) error {
	err := s.recipeRepository.Guarded(ctx, id, profileID, s.editor.CanEdit,
		func(store.Tx, entities.Recipe) ([]store.Write, error) {
			return []store.Write{store.UpdateFields(entities.RecipeDoc(id), fields...)}, nil
		})
	if err != nil {
		return fmt.Errorf("recipe: updating %s: %w", id, err)
	}
	return nil
}

func checkProfile(profileID string) error {
	if !validation.NonEmptyString(profileID) {
		return domain.NewValidationError("", "profileId is required")
	}
	return nil
}

func checkContent(profileID, name string, ingredients []domain.Ingredient, instructions []domain.Instruction) error {
	if err := checkProfile(profileID); err != nil {
		return err
	}
	if !validation.NonEmptyString(name) {
		return domain.NewValidationError(domain.SecondaryName, "name is required")
	}
	if !validation.NonEmpty(ingredients) {
		return domain.NewValidationError(domain.SecondaryIngredients, "at least one ingredient is required")
	}
	if !validation.NonEmpty(instructions) {
		return domain.NewValidationError(domain.SecondaryInstructions, "at least one instruction is required")
	}
	return nil
}

func firstOwner(authors []domain.Author) string {
	for _, a := range authors {
		if a.Association == domain.RoleOwner {
			return a.ID
		}
	}
	return ""
}

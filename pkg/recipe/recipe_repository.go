package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/mirror"
	"github.com/minischetti/meal-planner-api/pkg/store"
)

type (
	// BuildFunc returns the writes for a permitted change. Any reads must go through tx.
	BuildFunc func(tx store.Tx, recipe entities.Recipe) ([]store.Write, error)

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe entities.Recipe) error
		GetRecipe(ctx context.Context, id string) (entities.Recipe, error)
		GetAssociations(ctx context.Context, id string) ([]entities.Association, error)
		AddAssociation(ctx context.Context, recipeID, personID string, role domain.Role) error
		RemoveAssociation(ctx context.Context, recipeID, personID string) error
		// Guarded reads the recipe and the caller's association in one transaction, asks allow
		// about the caller's role and only then commits what build returns.
		Guarded(ctx context.Context, recipeID, personID string, allow func(domain.Role) bool, build BuildFunc) error
	}

	recipeRepository struct {
		store store.Store
	}
)

func NewRecipeRepository(st store.Store) RecipeRepository {
	return &recipeRepository{store: st}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe entities.Recipe) error {
	person, association := mirror.RecipeAuthor(recipe.Owner, recipe.ID, domain.RoleOwner)
	err := mirror.Sync(ctx, r.store, mirror.Create, person, association,
		store.Set(entities.RecipeDoc(recipe.ID), recipe))
	if err != nil {
		return fmt.Errorf("recipe: creating recipe %s: %w", recipe.ID, err)
	}
	return nil
}

func (r *recipeRepository) GetRecipe(ctx context.Context, id string) (entities.Recipe, error) {
	snap, err := r.store.Get(ctx, entities.RecipeDoc(id))
	if err != nil {
		return entities.Recipe{}, fmt.Errorf("recipe: getting recipe %s: %w", id, err)
	}
	var recipe entities.Recipe
	if err := snap.DataTo(&recipe); err != nil {
		return entities.Recipe{}, fmt.Errorf("recipe: parsing recipe %s: %w", id, err)
	}
	return recipe, nil
}

func (r *recipeRepository) GetAssociations(ctx context.Context, id string) ([]entities.Association, error) {
	snaps, err := r.store.List(ctx, entities.RecipeAssociations(id))
	if err != nil {
		return nil, fmt.Errorf("recipe: listing associations of %s: %w", id, err)
	}
	return store.DecodeAll[entities.Association](snaps)
}

func (r *recipeRepository) AddAssociation(ctx context.Context, recipeID, personID string, role domain.Role) error {
	err := mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		if err := mustExist(tx, entities.PersonDoc(personID)); err != nil {
			return nil, err
		}
		if err := mustExist(tx, entities.RecipeDoc(recipeID)); err != nil {
			return nil, err
		}
		person, association := mirror.RecipeAuthor(personID, recipeID, role)
		return mirror.Pair(mirror.Create, person, association)
	})
	if err != nil {
		return fmt.Errorf("recipe: adding association %s to %s: %w", personID, recipeID, err)
	}
	return nil
}

func (r *recipeRepository) RemoveAssociation(ctx context.Context, recipeID, personID string) error {
	err := mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		if err := mustExist(tx, entities.RecipeDoc(recipeID)); err != nil {
			return nil, err
		}
		current, err := association(tx, recipeID, personID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NewValidationError(domain.SecondaryAuthors, "person is not associated with this recipe")
		}
		if err != nil {
			return nil, err
		}
		if current.Association == domain.RoleOwner {
			return nil, domain.NewValidationError(domain.SecondaryAuthors, "the owner association cannot be removed")
		}
		person, assoc := mirror.RecipeAuthor(personID, recipeID, current.Association)
		return mirror.Pair(mirror.Delete, person, assoc)
	})
	if err != nil {
		return fmt.Errorf("recipe: removing association %s from %s: %w", personID, recipeID, err)
	}
	return nil
}

func (r *recipeRepository) Guarded(ctx context.Context, recipeID, personID string, allow func(domain.Role) bool, build BuildFunc) error {
	return mirror.SyncWithin(ctx, r.store, func(ctx context.Context, tx store.Tx) ([]store.Write, error) {
		snap, err := tx.Get(entities.RecipeDoc(recipeID))
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrEmpty
		}
		if err != nil {
			return nil, err
		}
		var recipe entities.Recipe
		if err := snap.DataTo(&recipe); err != nil {
			return nil, err
		}

		caller, err := association(tx, recipeID, personID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrPermissionDenied
		}
		if err != nil {
			return nil, err
		}
		if !allow(caller.Association) {
			return nil, domain.ErrPermissionDenied
		}
		return build(tx, recipe)
	})
}

func association(tx store.Tx, recipeID, personID string) (entities.Association, error) {
	snap, err := tx.Get(entities.RecipeAssociations(recipeID).Doc(personID))
	if err != nil {
		return entities.Association{}, err
	}
	var a entities.Association
	if err := snap.DataTo(&a); err != nil {
		return entities.Association{}, err
	}
	return a, nil
}

func mustExist(tx store.Tx, doc store.DocRef) error {
	_, err := tx.Get(doc)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", doc, domain.ErrEmpty)
	}
	return err
}

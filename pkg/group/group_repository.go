package group

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
	GroupRepository interface {
		// CreateGroup writes the group and every membership pair in one batch.
		CreateGroup(ctx context.Context, group entities.Group, members []entities.GroupMember) error
		GetGroups(ctx context.Context) ([]entities.Group, error)
		GetGroup(ctx context.Context, id string) (entities.Group, error)
		GetMembers(ctx context.Context, id string) ([]entities.GroupMember, error)
		GetInvites(ctx context.Context, id string) ([]entities.SenderInvite, error)
		CreateInvite(ctx context.Context, invite entities.SenderInvite) error
		GetLinkedRecipes(ctx context.Context, id string) ([]entities.GroupRecipe, error)
		LinkRecipe(ctx context.Context, id string, link entities.GroupRecipe) error
		UnlinkRecipe(ctx context.Context, id, recipeID string) error
		GetPerson(ctx context.Context, id string) (entities.Person, error)
		GetPeople(ctx context.Context, ids []string) ([]entities.Person, error)
		GetRecipes(ctx context.Context, ids []string) ([]entities.Recipe, error)
	}

	groupRepository struct {
		store store.Store
	}
)

func NewGroupRepository(st store.Store) GroupRepository {
	return &groupRepository{store: st}
}

func (r *groupRepository) CreateGroup(ctx context.Context, group entities.Group, members []entities.GroupMember) error {
	writes := []store.Write{store.Set(entities.GroupDoc(group.ID), group)}
	for _, m := range members {
		member, mirrored := mirror.GroupMembership(group.ID, m.ID, m.Role)
		pair, err := mirror.Pair(mirror.Create, member, mirrored)
		if err != nil {
			return err
		}
		writes = append(writes, pair...)
	}
	if err := r.store.Apply(ctx, writes...); err != nil {
		return fmt.Errorf("group: creating group %s: %w", group.ID, err)
	}
	return nil
}

func (r *groupRepository) GetGroups(ctx context.Context) ([]entities.Group, error) {
	return list[entities.Group](ctx, r.store, entities.Groups)
}

func (r *groupRepository) GetGroup(ctx context.Context, id string) (entities.Group, error) {
	return get[entities.Group](ctx, r.store, entities.GroupDoc(id))
}

func (r *groupRepository) GetMembers(ctx context.Context, id string) ([]entities.GroupMember, error) {
	return list[entities.GroupMember](ctx, r.store, entities.GroupMembers(id))
}

func (r *groupRepository) GetInvites(ctx context.Context, id string) ([]entities.SenderInvite, error) {
	return list[entities.SenderInvite](ctx, r.store, entities.GroupInvites(id))
}

func (r *groupRepository) CreateInvite(ctx context.Context, invite entities.SenderInvite) error {
	groupSide, personSide := mirror.Invite(invite.ID, invite.Group, invite.Sender, invite.Recipient)
	if err := mirror.Sync(ctx, r.store, mirror.Create, groupSide, personSide); err != nil {
		return fmt.Errorf("group: creating invite %s: %w", invite.ID, err)
	}
	return nil
}

func (r *groupRepository) GetLinkedRecipes(ctx context.Context, id string) ([]entities.GroupRecipe, error) {
	return list[entities.GroupRecipe](ctx, r.store, entities.GroupRecipes(id))
}

// LinkRecipe fails with store.ErrAlreadyExists when the recipe is already linked, leaving the
// existing link untouched.
func (r *groupRepository) LinkRecipe(ctx context.Context, id string, link entities.GroupRecipe) error {
	for _, doc := range []store.DocRef{entities.GroupDoc(id), entities.RecipeDoc(link.RecipeID)} {
		if _, err := r.store.Get(ctx, doc); errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("group: linking recipe: %s: %w", doc, domain.ErrEmpty)
		} else if err != nil {
			return fmt.Errorf("group: linking recipe: %w", err)
		}
	}
	guard := entities.GroupRecipes(id).Doc(link.RecipeID)
	if err := mirror.SyncIfAbsent(ctx, r.store, guard, store.Set(guard, link)); err != nil {
		return fmt.Errorf("group: linking recipe %s to %s: %w", link.RecipeID, id, err)
	}
	return nil
}

func (r *groupRepository) UnlinkRecipe(ctx context.Context, id, recipeID string) error {
	if err := r.store.Apply(ctx, store.Delete(entities.GroupRecipes(id).Doc(recipeID))); err != nil {
		return fmt.Errorf("group: unlinking recipe %s from %s: %w", recipeID, id, err)
	}
	return nil
}

func (r *groupRepository) GetPerson(ctx context.Context, id string) (entities.Person, error) {
	return get[entities.Person](ctx, r.store, entities.PersonDoc(id))
}

func (r *groupRepository) GetPeople(ctx context.Context, ids []string) ([]entities.Person, error) {
	refs := make([]store.DocRef, len(ids))
	for i, id := range ids {
		refs[i] = entities.PersonDoc(id)
	}
	return store.GetAll[entities.Person](ctx, r.store, refs)
}

func (r *groupRepository) GetRecipes(ctx context.Context, ids []string) ([]entities.Recipe, error) {
	refs := make([]store.DocRef, len(ids))
	for i, id := range ids {
		refs[i] = entities.RecipeDoc(id)
	}
	return store.GetAll[entities.Recipe](ctx, r.store, refs)
}

func get[T any](ctx context.Context, st store.Store, doc store.DocRef) (T, error) {
	var v T
	snap, err := st.Get(ctx, doc)
	if err != nil {
		return v, fmt.Errorf("group: getting %s: %w", doc, err)
	}
	if err := snap.DataTo(&v); err != nil {
		return v, fmt.Errorf("group: parsing %s: %w", doc, err)
	}
	return v, nil
}

func list[T any](ctx context.Context, st store.Store, col store.CollectionRef) ([]T, error) {
	snaps, err := st.List(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("group: listing %s: %w", col.Path, err)
	}
	out, err := store.DecodeAll[T](snaps)
	if err != nil {
		return nil, fmt.Errorf("group: parsing %s: %w", col.Path, err)
	}
	return out, nil
}

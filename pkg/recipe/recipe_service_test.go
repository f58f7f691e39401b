package recipe

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minischetti/meal-planner-api/domain"
	"github.com/minischetti/meal-planner-api/entities"
	"github.com/minischetti/meal-planner-api/pkg/permission"
	"github.com/minischetti/meal-planner-api/pkg/store"
	"github.com/minischetti/meal-planner-api/pkg/store/memory"
)

type fakeS3 struct {
	uploaded  []string
	deleted   []string
	deleteErr error
}

func (f *fakeS3) UploadFile(_ context.Context, fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return f.deleteErr
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string { return "https://cdn.test/" + objectKey }
func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return link[len("https://cdn.test/"):]
}

func newService(t *testing.T) (*memory.Store, RecipeService, *fakeS3) {
	t.Helper()
	st := memory.New()
	s3 := &fakeS3{}
	return st, NewRecipeService(NewRecipeRepository(st), permission.RoleEditor{}, s3), s3
}

func tacos() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		ProfileID:    "p1",
		Name:         "Tacos",
		Ingredients:  []domain.Ingredient{{Description: "Tortilla", Optional: false}},
		Instructions: []domain.Instruction{{Body: "Fill and fold"}},
	}
}

func getAs[T any](t *testing.T, st store.Store, doc store.DocRef) T {
	t.Helper()
	snap, err := st.Get(context.Background(), doc)
	require.NoError(t, err)
	var v T
	require.NoError(t, snap.DataTo(&v))
	return v
}

func TestCreateRecipe_Tacos(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NotEmpty(t, recipe.ID)
	assert.Equal(t, 3, st.Len())

	stored := getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID))
	assert.Equal(t, "Tacos", stored.Name)
	assert.Equal(t, "p1", stored.Owner)
	assert.Equal(t, []domain.Ingredient{{Description: "Tortilla"}}, stored.Ingredients)

	assert.Equal(t,
		entities.Association{ID: "p1", Association: domain.RoleOwner},
		getAs[entities.Association](t, st, entities.RecipeAssociations(recipe.ID).Doc("p1")))
	assert.Equal(t,
		entities.Association{ID: recipe.ID, Association: domain.RoleOwner},
		getAs[entities.Association](t, st, entities.PersonRecipes("p1").Doc(recipe.ID)))
}

func TestCreateRecipe_Validation(t *testing.T) {
	st, svc, _ := newService(t)
	tests := []struct {
		name   string
		mutate func(r *domain.CreateRecipeRequest)
		field  domain.SecondaryDomain
	}{
		{"blank name", func(r *domain.CreateRecipeRequest) { r.Name = " " }, domain.SecondaryName},
		{"no ingredients", func(r *domain.CreateRecipeRequest) { r.Ingredients = nil }, domain.SecondaryIngredients},
		{"no instructions", func(r *domain.CreateRecipeRequest) { r.Instructions = nil }, domain.SecondaryInstructions},
		{"no profile", func(r *domain.CreateRecipeRequest) { r.ProfileID = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tacos()
			tt.mutate(&req)
			_, err := svc.CreateRecipe(context.Background(), req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
	assert.Equal(t, 0, st.Len())
}

func TestCreateRecipe_AtomicUnderFailure(t *testing.T) {
	st, svc, _ := newService(t)
	boom := errors.New("unavailable")
	calls := 0
	st.SetFault(func(store.Write) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	_, err := svc.CreateRecipe(context.Background(), tacos())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, st.Len())
}

func TestUpdate_PermissionGate(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p3"), entities.Person{ID: "p3"})))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleContributor}))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p3", Association: domain.RoleSubscriber}))

	tests := []struct {
		name    string
		recipe  string
		profile string
		wantErr error
	}{
		{"owner", recipe.ID, "p1", nil},
		{"contributor", recipe.ID, "p2", nil},
		{"subscriber", recipe.ID, "p3", domain.ErrPermissionDenied},
		{"stranger", recipe.ID, "p9", domain.ErrPermissionDenied},
		{"missing recipe", "nope", "p1", domain.ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpdateName(ctx, tt.recipe, domain.RecipeNameRequest{ProfileID: tt.profile, Name: "Tacos " + tt.name})
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "Tacos "+tt.name, getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).Name)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, "Tacos contributor", getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).Name)
}

func TestUpdateRecipe_Fields(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	err = svc.UpdateRecipe(ctx, recipe.ID, domain.UpdateRecipeRequest{
		ProfileID:    "p1",
		Name:         "Fish tacos",
		PrepTime:     "10m",
		Ingredients:  []domain.Ingredient{{Description: "Cod"}, {Description: "Lime", Optional: true}},
		Instructions: []domain.Instruction{{Body: "Grill"}, {Body: "Fill and fold"}},
	})
	require.NoError(t, err)
	got := getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID))
	assert.Equal(t, "Fish tacos", got.Name)
	assert.Equal(t, "10m", got.PrepTime)
	assert.Equal(t, "p1", got.Owner)
	assert.Len(t, got.Ingredients, 2)
	assert.True(t, got.Ingredients[1].Optional)

	require.NoError(t, svc.UpdateIngredients(ctx, recipe.ID, domain.RecipeIngredientsRequest{
		ProfileID: "p1", Ingredients: []domain.Ingredient{{Description: "Beans"}},
	}))
	require.NoError(t, svc.UpdateInstructions(ctx, recipe.ID, domain.RecipeInstructionsRequest{
		ProfileID: "p1", Instructions: []domain.Instruction{{Body: "Stir"}},
	}))
	got = getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID))
	assert.Equal(t, []domain.Ingredient{{Description: "Beans"}}, got.Ingredients)
	assert.Equal(t, []domain.Instruction{{Body: "Stir"}}, got.Instructions)

	err = svc.UpdateIngredients(ctx, recipe.ID, domain.RecipeIngredientsRequest{ProfileID: "p1"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateAuthors(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleSubscriber}))

	err = svc.UpdateAuthors(ctx, recipe.ID, domain.RecipeAuthorsRequest{
		ProfileID: "p1",
		Authors:   []domain.Author{{ID: "p1", Association: domain.RoleContributor}},
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	err = svc.UpdateAuthors(ctx, recipe.ID, domain.RecipeAuthorsRequest{
		ProfileID: "p1",
		Authors: []domain.Author{
			{ID: "p1", Association: domain.RoleOwner},
			{ID: "p4", Association: domain.RoleContributor},
		},
	})
	require.NoError(t, err)

	assoc, err := NewRecipeRepository(st).GetAssociations(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []entities.Association{
		{ID: "p1", Association: domain.RoleOwner},
		{ID: "p4", Association: domain.RoleContributor},
	}, assoc)

	_, err = st.Get(ctx, entities.PersonRecipes("p2").Doc(recipe.ID))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t,
		entities.Association{ID: recipe.ID, Association: domain.RoleContributor},
		getAs[entities.Association](t, st, entities.PersonRecipes("p4").Doc(recipe.ID)))
}

func TestAssociations(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	err = svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "ghost", Association: domain.RoleSubscriber})
	assert.ErrorIs(t, err, domain.ErrEmpty)

	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleSubscriber}))
	require.NoError(t, svc.RemoveAssociation(ctx, recipe.ID, "p2"))

	_, err = st.Get(ctx, entities.RecipeAssociations(recipe.ID).Doc("p2"))
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Get(ctx, entities.PersonRecipes("p2").Doc(recipe.ID))
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, svc.RemoveAssociation(ctx, recipe.ID, "p2"), domain.ErrBadRequest)
	assert.ErrorIs(t, svc.RemoveAssociation(ctx, recipe.ID, "p1"), domain.ErrBadRequest)
}

func TestDeleteRecipe(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleContributor}))

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "p2", recipe.ID), domain.ErrPermissionDenied)

	require.NoError(t, svc.DeleteRecipe(ctx, "p1", recipe.ID))
	// only the p2 person document is left
	assert.Equal(t, 1, st.Len())

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "p1", recipe.ID), domain.ErrEmpty)
}

func TestUploadImage(t *testing.T) {
	st, svc, s3 := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	header := &multipart.FileHeader{Filename: "tacos.png", Header: textproto.MIMEHeader{"Content-Type": {"image/png"}}}
	first, err := svc.UploadImage(ctx, recipe.ID, "p1", header)
	require.NoError(t, err)
	assert.Equal(t, first, getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).ImageURL)

	second, err := svc.UploadImage(ctx, recipe.ID, "p1", header)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{s3.uploaded[0]}, s3.deleted)

	_, err = svc.UploadImage(ctx, recipe.ID, "p9", header)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Len(t, s3.uploaded, 2)
}

func TestAddAssociation_RejectsOwner(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	before := st.Len()

	err = svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.SecondaryAuthors, verr.Field)
	assert.Equal(t, before, st.Len())

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "p2", recipe.ID), domain.ErrPermissionDenied)
	assert.Equal(t, "p1", getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).Owner)
}

func TestDeleteRecipe_AtomicUnderFailure(t *testing.T) {
	st, svc, _ := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NoError(t, st.Apply(ctx, store.Set(entities.PersonDoc("p2"), entities.Person{ID: "p2"})))
	require.NoError(t, svc.AddAssociation(ctx, recipe.ID, domain.AddAssociationRequest{ProfileID: "p2", Association: domain.RoleSubscriber}))
	before := st.Len()

	boom := errors.New("unavailable")
	calls := 0
	st.SetFault(func(store.Write) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, svc.DeleteRecipe(ctx, "p1", recipe.ID), boom)
	st.SetFault(nil)

	assert.Equal(t, before, st.Len())
	assert.Equal(t, "Tacos", getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).Name)
	getAs[entities.Association](t, st, entities.PersonRecipes("p1").Doc(recipe.ID))
	getAs[entities.Association](t, st, entities.RecipeAssociations(recipe.ID).Doc("p2"))
}

func TestUploadImage_CleanupFailureIsNotFatal(t *testing.T) {
	st, svc, s3 := newService(t)
	ctx := context.Background()
	recipe, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	header := &multipart.FileHeader{Filename: "tacos.png", Header: textproto.MIMEHeader{"Content-Type": {"image/png"}}}
	_, err = svc.UploadImage(ctx, recipe.ID, "p1", header)
	require.NoError(t, err)

	s3.deleteErr = errors.New("access denied")
	second, err := svc.UploadImage(ctx, recipe.ID, "p1", header)
	require.NoError(t, err)
	assert.Equal(t, second, getAs[entities.Recipe](t, st, entities.RecipeDoc(recipe.ID)).ImageURL)
	assert.Len(t, s3.deleted, 1)
}

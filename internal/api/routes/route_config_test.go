package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minischetti/meal-planner-api/internal/api/handlers"
	"github.com/minischetti/meal-planner-api/internal/middleware"
	"github.com/minischetti/meal-planner-api/internal/utils"
	"github.com/minischetti/meal-planner-api/pkg/account"
	"github.com/minischetti/meal-planner-api/pkg/group"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
	"github.com/minischetti/meal-planner-api/pkg/people"
	"github.com/minischetti/meal-planner-api/pkg/permission"
	"github.com/minischetti/meal-planner-api/pkg/plan"
	"github.com/minischetti/meal-planner-api/pkg/recipe"
	"github.com/minischetti/meal-planner-api/pkg/store/memory"
)

type nopMailer struct{}

func (nopMailer) SendMail(string, string, string) error { return nil }

type fakeS3 struct{}

func (fakeS3) UploadFile(_ context.Context, fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	return folder + "/" + fileName, nil
}
func (fakeS3) DeleteFile(context.Context, string) error { return nil }
func (fakeS3) GetPublicLinkKey(key string) string        { return "https://cdn.test/" + key }
func (fakeS3) GetObjectKeyFromLink(link string) string   { return link[len("https://cdn.test/"):] }

func newApp(t *testing.T, requireAuth bool) *fiber.App {
	t.Helper()
	st := memory.New()
	validator := utils.InitValidator()
	tokens := jwt.NewJWTService("secret")
	accounts := account.NewAccountService(account.NewLocalProvider(st), tokens)

	app := fiber.New()
	cfg := Config{
		App:            app,
		AccountHandler: handlers.NewAccountHandler(accounts, validator),
		PeopleHandler:  handlers.NewPeopleHandler(people.NewPeopleService(people.NewPeopleRepository(st), st), validator),
		RecipeHandler:  handlers.NewRecipeHandler(recipe.NewRecipeService(recipe.NewRecipeRepository(st), permission.RoleEditor{}, fakeS3{}), validator),
		GroupHandler:   handlers.NewGroupHandler(group.NewGroupService(group.NewGroupRepository(st), nopMailer{}, "http://localhost"), validator),
		PlanHandler:    handlers.NewPlanHandler(plan.NewPlanService(plan.NewPlanRepository(st)), validator),
		Middleware:     middleware.NewMiddleware("*", accounts),
		JWTService:     tokens,
		RequireAuth:    requireAuth,
	}
	cfg.Setup()
	return app
}

type response struct {
	status int
	body   map[string]any
	list   []any
}

func call(t *testing.T, app *fiber.App, method, path string, body any, token string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode}
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &out.list))
	} else if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func data(t *testing.T, r response) map[string]any {
	t.Helper()
	d, ok := r.body["data"].(map[string]any)
	require.True(t, ok, "response has no data: %v", r.body)
	return d
}

func tacos(profile string) map[string]any {
	return map[string]any{
		"profileId":    profile,
		"name":         "Tacos",
		"ingredients":  []map[string]any{{"description": "Tortilla", "optional": false}},
		"instructions": []map[string]any{{"body": "Fill and fold"}},
	}
}

func TestPing(t *testing.T) {
	app := newApp(t, false)
	r := call(t, app, http.MethodGet, "/api/ping", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "pong", r.body["message"])
}

func TestPeopleRoutes(t *testing.T) {
	app := newApp(t, false)

	r := call(t, app, http.MethodPost, "/api/people", map[string]any{"id": "p1", "firstName": "Ana", "lastName": "Silva"}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	assert.Equal(t, "people", r.body["primaryDomain"])
	assert.Equal(t, "create", r.body["operation"])
	assert.Equal(t, "success", r.body["result"])

	r = call(t, app, http.MethodPost, "/api/people", map[string]any{"id": "p1", "name": "Again"}, "")
	assert.Equal(t, fiber.StatusConflict, r.status)
	assert.Equal(t, "already_exists", r.body["result"])

	r = call(t, app, http.MethodGet, "/api/people/p1", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Ana Silva", r.body["name"])

	r = call(t, app, http.MethodPut, "/api/people/p1", map[string]any{"email": "not-an-email"}, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "bad_request", r.body["result"])

	r = call(t, app, http.MethodGet, "/api/people/nobody", nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "empty", r.body["result"])

	r = call(t, app, http.MethodGet, "/api/people/p1/recipes", nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "recipes", r.body["secondaryDomain"])
}

func TestRecipeRoutes(t *testing.T) {
	app := newApp(t, false)

	r := call(t, app, http.MethodPost, "/api/recipes", tacos("p1"), "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	id := data(t, r)["id"].(string)

	r = call(t, app, http.MethodGet, "/api/recipes/"+id, nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Tacos", r.body["name"])
	assert.Len(t, r.body["associations"], 1)

	r = call(t, app, http.MethodGet, "/api/people/p1/recipes", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.list, 1)

	r = call(t, app, http.MethodPut, "/api/recipes/"+id+"/name", map[string]any{"profileId": "p2", "name": "Burritos"}, "")
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, "permission_deny", r.body["result"])

	r = call(t, app, http.MethodPut, "/api/recipes/"+id+"/name", map[string]any{"profileId": "p1", "name": "Burritos"}, "")
	assert.Equal(t, fiber.StatusOK, r.status)

	r = call(t, app, http.MethodPut, "/api/recipes/"+id+"/authors", map[string]any{
		"profileId": "p1",
		"authors":   []map[string]any{{"id": "p1", "association": "contributor"}},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "bad_request", r.body["result"])

	r = call(t, app, http.MethodPost, "/api/recipes", map[string]any{"profileId": "p1", "name": "Empty"}, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPut, "/api/recipes/missing/name", map[string]any{"profileId": "p1", "name": "x"}, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = call(t, app, http.MethodDelete, "/api/people/p2/recipes/"+id, nil, "")
	assert.Equal(t, fiber.StatusForbidden, r.status)
	r = call(t, app, http.MethodDelete, "/api/people/p1/recipes/"+id, nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/recipes/"+id, nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestRecipeImageRoute(t *testing.T) {
	app := newApp(t, false)
	r := call(t, app, http.MethodPost, "/api/recipes", tacos("p1"), "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	id := data(t, r)["id"].(string)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("profileId", "p1"))
	part, err := w.CreateFormFile("image", "tacos.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/"+id+"/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGroupRoutes(t *testing.T) {
	app := newApp(t, false)
	for _, p := range []string{"p1", "p2"} {
		r := call(t, app, http.MethodPost, "/api/people", map[string]any{"id": p, "name": p}, "")
		require.Equal(t, fiber.StatusOK, r.status, r.body)
	}

	r := call(t, app, http.MethodPost, "/api/groups", map[string]any{"name": "Family", "description": "d", "profileId": "p1"}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	g := data(t, r)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/groups/"+g+"/invite", map[string]any{"sender": "p1", "recipient": "p2"}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	invite := data(t, r)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/people/p2/invites/"+invite, map[string]any{}, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPost, "/api/people/p2/invites/"+invite, map[string]any{"answer": true}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)

	r = call(t, app, http.MethodPost, "/api/people/p2/invites/"+invite, map[string]any{"answer": false}, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = call(t, app, http.MethodGet, "/api/groups/"+g+"/members", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.list, 2)

	r = call(t, app, http.MethodGet, "/api/people/p2/groups", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.list, 1)

	r = call(t, app, http.MethodPost, "/api/recipes", tacos("p1"), "")
	require.Equal(t, fiber.StatusOK, r.status)
	recipeID := data(t, r)["id"].(string)

	link := map[string]any{"recipeOwnerId": "p1", "recipeId": recipeID}
	r = call(t, app, http.MethodPost, "/api/groups/"+g+"/recipes", link, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	r = call(t, app, http.MethodPost, "/api/groups/"+g+"/recipes", link, "")
	assert.Equal(t, fiber.StatusConflict, r.status)
	assert.Equal(t, "already_exists", r.body["result"])

	r = call(t, app, http.MethodGet, "/api/groups/"+g+"/recipes", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.list, 1)

	r = call(t, app, http.MethodDelete, "/api/groups/"+g+"/recipes/"+recipeID, nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/groups/"+g+"/recipes", nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestPlanRoutes(t *testing.T) {
	app := newApp(t, false)
	r := call(t, app, http.MethodPost, "/api/people", map[string]any{"id": "p1", "name": "Ana"}, "")
	require.Equal(t, fiber.StatusOK, r.status)

	r = call(t, app, http.MethodPost, "/api/people/p1/plans", map[string]any{
		"name": "Week 1",
		"days": []map[string]any{{"id": 0, "recipeId": "r1"}},
	}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	id := data(t, r)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/people/p1/plans/"+id+"/days", map[string]any{"id": 1, "recipeId": "r2"}, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)

	r = call(t, app, http.MethodPost, "/api/people/p1/plans/"+id+"/active", nil, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)

	r = call(t, app, http.MethodGet, "/api/people/p1", nil, "")
	assert.Equal(t, id, r.body["activeMealPlan"])

	r = call(t, app, http.MethodGet, "/api/people/p1/plans/"+id, nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, true, r.body["active"])
	assert.Len(t, r.body["days"], 2)

	r = call(t, app, http.MethodDelete, "/api/people/p1/plans/"+id+"/days/1", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)

	r = call(t, app, http.MethodDelete, "/api/people/p1/plans/"+id, nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/people/p1/plans", nil, "")
	assert.Equal(t, fiber.StatusNotFound, r.status)
	assert.Equal(t, "plan", r.body["primaryDomain"])
}

func TestAccountRoutes(t *testing.T) {
	app := newApp(t, true)
	creds := map[string]any{"email": "ana@example.com", "password": "hunter22"}

	r := call(t, app, http.MethodGet, "/api/groups", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodPost, "/api/users", creds, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	r = call(t, app, http.MethodPost, "/api/users", creds, "")
	assert.Equal(t, fiber.StatusConflict, r.status)

	r = call(t, app, http.MethodPost, "/api/login", map[string]any{"email": "ana@example.com", "password": "wrong-one"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodPost, "/api/login", creds, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	token := data(t, r)["token"].(string)
	require.NotEmpty(t, token)

	r = call(t, app, http.MethodGet, "/api/groups", nil, token)
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = call(t, app, http.MethodPost, "/api/logout", nil, token)
	require.Equal(t, fiber.StatusOK, r.status, r.body)

	r = call(t, app, http.MethodGet, "/api/groups", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
}

func TestAuthenticatedCallerActsAsSelf(t *testing.T) {
	app := newApp(t, true)
	creds := map[string]any{"email": "ana@example.com", "password": "hunter22"}
	r := call(t, app, http.MethodPost, "/api/users", creds, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	r = call(t, app, http.MethodPost, "/api/login", creds, "")
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	uid := data(t, r)["uid"].(string)
	token := data(t, r)["token"].(string)

	r = call(t, app, http.MethodPost, "/api/people", map[string]any{"id": "victim", "name": "Vic"}, token)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	r = call(t, app, http.MethodPost, "/api/people", map[string]any{"id": uid, "name": "Ana"}, token)
	require.Equal(t, fiber.StatusOK, r.status, r.body)

	r = call(t, app, http.MethodPost, "/api/recipes", tacos("victim"), token)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, "permission_deny", r.body["result"])

	r = call(t, app, http.MethodPost, "/api/recipes", tacos(uid), token)
	require.Equal(t, fiber.StatusOK, r.status, r.body)
	id := data(t, r)["id"].(string)

	r = call(t, app, http.MethodPut, "/api/recipes/"+id+"/name", map[string]any{"profileId": "victim", "name": "Burritos"}, token)
	assert.Equal(t, fiber.StatusForbidden, r.status)

	r = call(t, app, http.MethodPost, "/api/recipes/"+id+"/associations", map[string]any{"profileId": uid, "association": "owner"}, token)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "authors", r.body["secondaryDomain"])

	r = call(t, app, http.MethodPost, "/api/people/victim/plans", map[string]any{"name": "Week 1"}, token)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	r = call(t, app, http.MethodDelete, "/api/people/victim/recipes/"+id, nil, token)
	assert.Equal(t, fiber.StatusForbidden, r.status)

	r = call(t, app, http.MethodGet, "/api/recipes/"+id, nil, token)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "Tacos", r.body["name"])
}

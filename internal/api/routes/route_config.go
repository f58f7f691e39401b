package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/minischetti/meal-planner-api/internal/api/handlers"
	"github.com/minischetti/meal-planner-api/internal/middleware"
	"github.com/minischetti/meal-planner-api/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	AccountHandler handlers.AccountHandler
	PeopleHandler  handlers.PeopleHandler
	RecipeHandler  handlers.RecipeHandler
	GroupHandler   handlers.GroupHandler
	PlanHandler    handlers.PlanHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
	// RequireAuth puts the resource routes behind a bearer token.
	RequireAuth bool
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Account()
	c.People()
	c.Recipes()
	c.Groups()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Account() {
	api := c.App.Group("/api")
	api.Post("/users", c.AccountHandler.Register)
	api.Post("/login", c.AccountHandler.Login)
	api.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.AccountHandler.Logout)
}

func (c *Config) People() {
	people := c.App.Group("/api/people", c.guard()...)
	// person routes
	{
		people.Post("", c.PeopleHandler.CreatePerson)
		people.Get("/:person", c.PeopleHandler.GetPerson)
		people.Put("/:person", c.PeopleHandler.UpdatePerson)
		people.Get("/:person/recipes", c.PeopleHandler.GetRecipes)
		people.Delete("/:person/recipes/:recipe", c.RecipeHandler.DeleteRecipe)
		people.Get("/:person/groups", c.PeopleHandler.GetGroups)
		people.Get("/:person/invites", c.PeopleHandler.GetInvites)
		people.Post("/:person/invites/:invite", c.PeopleHandler.AnswerInvite)
	}
	// plan routes
	{
		people.Get("/:person/plans", c.PlanHandler.GetPlans)
		people.Post("/:person/plans", c.PlanHandler.CreatePlan)
		people.Get("/:person/plans/:plan", c.PlanHandler.GetPlan)
		people.Delete("/:person/plans/:plan", c.PlanHandler.DeletePlan)
		people.Post("/:person/plans/:plan/days", c.PlanHandler.SetDay)
		people.Delete("/:person/plans/:plan/days/:day", c.PlanHandler.RemoveDay)
		people.Post("/:person/plans/:plan/active", c.PlanHandler.SetActive)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes", c.guard()...)
	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("/:recipe", c.RecipeHandler.GetRecipe)
	recipes.Put("/:recipe", c.RecipeHandler.UpdateRecipe)
	recipes.Put("/:recipe/name", c.RecipeHandler.UpdateName)
	recipes.Put("/:recipe/authors", c.RecipeHandler.UpdateAuthors)
	recipes.Put("/:recipe/ingredients", c.RecipeHandler.UpdateIngredients)
	recipes.Put("/:recipe/instructions", c.RecipeHandler.UpdateInstructions)
	recipes.Post("/:recipe/image", c.RecipeHandler.UploadImage)
	recipes.Post("/:recipe/associations", c.RecipeHandler.AddAssociation)
	recipes.Delete("/:recipe/associations/:profileId", c.RecipeHandler.RemoveAssociation)
}

func (c *Config) Groups() {
	groups := c.App.Group("/api/groups", c.guard()...)
	groups.Post("", c.GroupHandler.CreateGroup)
	groups.Get("", c.GroupHandler.GetGroups)
	groups.Get("/:group", c.GroupHandler.GetGroup)
	groups.Get("/:group/members", c.GroupHandler.GetMembers)
	groups.Get("/:group/invites", c.GroupHandler.GetInvites)
	groups.Post("/:group/invite", c.GroupHandler.SendInvite)
	groups.Get("/:group/recipes", c.GroupHandler.GetRecipes)
	groups.Post("/:group/recipes", c.GroupHandler.LinkRecipe)
	groups.Delete("/:group/recipes/:recipe", c.GroupHandler.UnlinkRecipe)
}

func (c *Config) guard() []fiber.Handler {
	if !c.RequireAuth {
		return nil
	}
	return []fiber.Handler{c.Middleware.AuthMiddleware(c.JWTService)}
}

package server

import (
	"net/http"

	"AssistantDashboard_V0.1/internal/features"
	"AssistantDashboard_V0.1/internal/models"
	"AssistantDashboard_V0.1/internal/utility"
	"github.com/labstack/echo/v4"
)

/* =================================================================================
							DTOs (Data Transfer Objects)
=================================================================================*/

// Amount fields are pointers so a missing value is told apart from zero.
type ExpenseRequest struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
}

type InvestmentRequest struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
}

type RecipeRequest struct {
	Ingredients string `json:"ingredients"`
	Preferences string `json:"preferences"`
}

type GoalRequest struct {
	Description string `json:"description"`
	Target      string `json:"target"`
	Deadline    string `json:"deadline"`
}

/*=================================================================================
									FINANCE
=================================================================================*/

func (s *Server) GetFinanceHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Finance.Snapshot())
}

func (s *Server) AddExpenseHandler(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if req.Amount == nil {
		return badRequest(c, "Please enter a category and amount.")
	}

	expense, err := dashboardFromContext(c).Finance.AddExpense(req.Category, *req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, expense)
}

func (s *Server) RemoveExpenseHandler(c echo.Context) error {
	if err := dashboardFromContext(c).Finance.RemoveExpense(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AddInvestmentHandler(c echo.Context) error {
	var req InvestmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	if req.Value == nil {
		return badRequest(c, "Please enter a name, type and value.")
	}

	inv, err := dashboardFromContext(c).Finance.AddInvestment(req.Name, req.Type, *req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (s *Server) RemoveInvestmentHandler(c echo.Context) error {
	if err := dashboardFromContext(c).Finance.RemoveInvestment(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) GetBreakdownHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Finance.Breakdown())
}

// RequestAdviceHandler starts the generation and answers 202 with the pending
// snapshot. The result arrives via GET /api/finance or the websocket.
func (s *Server) RequestAdviceHandler(c echo.Context) error {
	finance := dashboardFromContext(c).Finance
	if _, err := finance.RequestAdvice(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, finance.Snapshot())
}

/*=================================================================================
									RECIPES
=================================================================================*/

func (s *Server) GetRecipesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Recipes.Snapshot())
}

func (s *Server) GenerateRecipesHandler(c echo.Context) error {
	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	recipes := dashboardFromContext(c).Recipes
	if _, err := recipes.Generate(c.Request().Context(), req.Ingredients, req.Preferences); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, recipes.Snapshot())
}

/*=================================================================================
									FITNESS
=================================================================================*/

func (s *Server) GetFitnessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Fitness.Snapshot())
}

func (s *Server) UpdateProfileHandler(c echo.Context) error {
	var req models.UserProfile
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	fitness := dashboardFromContext(c).Fitness
	if err := fitness.UpdateProfile(req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fitness.Snapshot())
}

func (s *Server) UpdateProgressHandler(c echo.Context) error {
	var req models.Progress
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	fitness := dashboardFromContext(c).Fitness
	fitness.UpdateProgress(req)
	return c.JSON(http.StatusOK, fitness.Snapshot())
}

func (s *Server) GeneratePlanHandler(c echo.Context) error {
	fitness := dashboardFromContext(c).Fitness
	if _, err := fitness.GeneratePlan(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, fitness.Snapshot())
}

/*=================================================================================
									GOALS
=================================================================================*/

func (s *Server) GetGoalsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardFromContext(c).Goals.Snapshot())
}

func (s *Server) AddGoalHandler(c echo.Context) error {
	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	goals := dashboardFromContext(c).Goals
	if _, err := goals.AddGoal(c.Request().Context(), req.Description, req.Target, req.Deadline); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusAccepted, goals.Snapshot())
}

func (s *Server) RemoveGoalHandler(c echo.Context) error {
	if err := dashboardFromContext(c).Goals.RemoveGoal(c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ToggleSubTaskHandler(c echo.Context) error {
	index, err := utility.ParseIndexParam(c.Param("index"))
	if err != nil {
		return respondError(c, features.ErrSubTaskIndexOutOfRange)
	}

	goal, err := dashboardFromContext(c).Goals.ToggleSubTask(c.Param("id"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, goal)
}

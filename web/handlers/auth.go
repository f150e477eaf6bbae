package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/web/services"
	"github.com/habitquest/habitquest/web/utils"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

// userResponse is the public view of a user account.
type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Level       int    `json:"level"`
	XP          int64  `json:"xp"`
	HP          int64  `json:"hp"`
	NextLevelXP int64  `json:"next_level_xp"`
	ActiveTitle string `json:"active_title,omitempty"`
}

func (webApp *WebApp) userView(user *dbmodels.User) userResponse {
	return userResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		Level:       user.Level,
		XP:          user.XP,
		HP:          user.HP,
		NextLevelXP: webApp.Calculator.ThresholdForLevel(user.Level + 1),
		ActiveTitle: user.ActiveTitle,
	}
}

// HandleRegister creates a new account and returns it with an access token.
func HandleRegister(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			return utils.SendBadRequest(c, "Username, email and password are required", nil)
		}
		if len(req.Password) < 8 {
			return utils.SendBadRequest(c, "Password must be at least 8 characters", map[string]string{
				"password": "minimum length is 8",
			})
		}

		user, token, err := webApp.AuthService.Register(c.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			return sendDomainError(c, err)
		}

		return utils.SendCreated(c, fiber.Map{
			"user":  webApp.userView(user),
			"token": token,
		}, "Account created")
	}
}

// HandleLogin verifies credentials and returns a fresh access token.
func HandleLogin(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Email == "" || req.Password == "" {
			return utils.SendBadRequest(c, "Email and password are required", nil)
		}

		user, token, err := webApp.AuthService.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return utils.SendUnauthorized(c, err.Error())
			}
			return sendDomainError(c, err)
		}

		return utils.SendSuccess(c, fiber.Map{
			"user":  webApp.userView(user),
			"token": token,
		}, "Logged in")
	}
}

// HandleProfile returns the authenticated user's account.
func HandleProfile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		user, err := webApp.Users.GetByID(c.Context(), s.UserID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, webApp.userView(user), "")
	}
}

// HandleUpdateTitle sets the user's active title. Only unlocked titles are
// accepted; an empty title clears it.
func HandleUpdateTitle(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		var req updateTitleRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		if req.Title != "" {
			owned, err := webApp.Rewards.Owned(c.Context(), s.UserID)
			if err != nil {
				return sendDomainError(c, err)
			}
			found := false
			for _, t := range owned {
				if t.Name == req.Title {
					found = true
					break
				}
			}
			if !found {
				return utils.SendForbidden(c, "Title is not unlocked")
			}
		}

		if err := webApp.Users.UpdateActiveTitle(c.Context(), s.UserID, req.Title); err != nil {
			return sendDomainError(c, err)
		}

		user, err := webApp.Users.GetByID(c.Context(), s.UserID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, webApp.userView(user), "Title updated")
	}
}

// HandleDeleteAccount removes the account and everything hanging off it.
func HandleDeleteAccount(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		if err := webApp.Users.Delete(c.Context(), s.UserID); err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

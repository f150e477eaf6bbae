package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/habitquest/habitquest/habitquest/rewards"
	"github.com/habitquest/habitquest/web/utils"
)

// HandleListRewards returns the full title catalog.
func HandleListRewards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, webApp.Rewards.List(), "")
	}
}

// HandleOwnedRewards returns the titles the user has unlocked.
func HandleOwnedRewards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		owned, err := webApp.Rewards.Owned(c.Context(), s.UserID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, owned, "")
	}
}

// HandleRedeemReward buys a title with HP and sets it active.
func HandleRedeemReward(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		rewardID := c.Params("rewardId")
		if rewardID == "" {
			return utils.SendBadRequest(c, "Reward ID is required", nil)
		}

		user, err := webApp.Rewards.Redeem(c.Context(), s.UserID, rewardID)
		if err != nil {
			if errors.Is(err, rewards.ErrInsufficientHP) {
				return utils.SendUnprocessableEntity(c, err.Error(), nil)
			}
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, webApp.userView(user), "Reward redeemed")
	}
}

package handlers

import (
	"net/http"
	"time"

	"leadlink/internal/db"
	"leadlink/internal/models"
	"leadlink/internal/provider"
	"leadlink/internal/utils"

	"github.com/gin-gonic/gin"
)

const accountsCacheKey = "provider:accounts"

type AccountHandler struct {
	provider provider.Provider
}

func NewAccountHandler(p provider.Provider) *AccountHandler {
	return &AccountHandler{provider: p}
}

// List returns connected provider accounts. The upstream list changes
// rarely, so responses are cached for a minute; known accounts are mirrored
// into the accounts table.
func (h *AccountHandler) List(c *gin.Context) {
	if cached := utils.GetCache().Get(accountsCacheKey); cached != nil {
		if accounts, ok := cached.([]provider.Account); ok {
			c.JSON(http.StatusOK, gin.H{"accounts": accounts})
			return
		}
	}

	accounts, err := h.provider.GetAccounts(c.Request.Context())
	if err != nil {
		AbortError(c, err)
		return
	}

	for _, acc := range accounts {
		var existing models.Account
		err := db.DB.Where("account_id = ?", acc.ID).First(&existing).Error
		if err == nil {
			continue
		}
		record := models.Account{
			AccountID: acc.ID,
			Provider:  acc.Provider,
			Username:  acc.Username,
			Status:    acc.Status,
		}
		if record.Provider == "" {
			record.Provider = "LINKEDIN"
		}
		db.DB.Create(&record)
	}

	utils.GetCache().Set(accountsCacheKey, accounts, time.Minute)
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

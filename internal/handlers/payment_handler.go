package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"invest-platform/internal/auth"
	"invest-platform/internal/models"
	"invest-platform/internal/payments"
	"invest-platform/internal/services"
)

type PaymentHandler struct {
	db        *gorm.DB
	paystack  *payments.PaystackClient
	secretKey string
}

func NewPaymentHandler(db *gorm.DB, paystack *payments.PaystackClient, secretKey string) *PaymentHandler {
	return &PaymentHandler{
		db:        db,
		paystack:  paystack,
		secretKey: secretKey,
	}
}

// InitializePayment creates a Paystack hosted checkout session for a deposit
// POST /api/payments/initialize
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Amount string `json:"amount" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	userService := services.NewUserService(h.db)
	user, err := userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	session, err := h.paystack.InitializeTransaction(user.Email, amount, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to initialize payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// Webhook receives Paystack event notifications. The signature is an
// HMAC-SHA512 of the raw body; events with a bad signature are rejected.
// POST /api/paystack/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !payments.ValidateWebhookSignature(body, signature, h.secretKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var event payments.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if event.Event == "charge.success" {
		userID := uint(0)
		if raw, ok := event.Data.Metadata["user_id"].(float64); ok {
			userID = uint(raw)
		}

		// Paystack amounts are in kobo
		amount := decimal.NewFromInt(event.Data.Amount).Div(decimal.NewFromInt(100))

		transaction := models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeDeposit,
			Amount:      amount,
			Reference:   event.Data.Reference,
			Status:      models.TransactionStatusCompleted,
			Description: "Investment deposit via Paystack",
		}
		if err := h.db.Create(&transaction).Error; err != nil {
			log.Printf("Webhook: failed to record transaction %s: %v", event.Data.Reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
			return
		}

		log.Printf("Webhook: deposit %s recorded for user %d", event.Data.Reference, userID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

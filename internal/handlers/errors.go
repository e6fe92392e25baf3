// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"

	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/services"
	"github.com/slayk/storefront-admin/internal/utils"
)

// respondError maps service errors onto the response envelope. Anything it
// does not recognise is logged and answered with 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var (
		lineErr   *services.LineItemError
		stripeErr *stripe.Error
	)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.ResourceProduct)
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, i18n.ResourceCategory)
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFoundResponse(c, i18n.ResourceOrder)
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, i18n.ResourceUser)
	case errors.Is(err, services.ErrEmailExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthEmailExists))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrRegistrationDisabled):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthRegistrationDisabled))
	case errors.As(err, &lineErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderLineItemUnavailable, lineErr.ProductID), nil)
	case errors.Is(err, services.ErrPaymentsDisabled):
		utils.ServiceUnavailableResponse(c, i18n.T(lang, i18n.KeyPaymentDisabled))
	case errors.As(err, &stripeErr):
		logrus.WithError(err).WithField("request_id", stripeErr.RequestID).Warn("payment provider rejected request")
		utils.ErrorResponse(c, http.StatusBadGateway, "PAYMENT_FAILED", i18n.T(lang, i18n.KeyPaymentFailed), stripeErr.Msg)
	case errors.Is(err, services.ErrInvalidUpload):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalidFile), err.Error())
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON binds and validates the body into req, answering 400 itself
// when either step fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

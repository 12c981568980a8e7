package httpapi

import (
	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/shared/core"
)

type checkoutRequest struct {
	TitleIDs  []string `json:"titleIds" validate:"required,min=1,max=50,dive,required"`
	UsePoints bool     `json:"usePoints"`
}

type checkoutResponse struct {
	Rentals       []core.Rental         `json:"rentals"`
	Items         []checkout.ItemResult `json:"items"`
	Quote         core.Quote            `json:"quote"`
	PointsBalance int                   `json:"pointsBalance"`
}

type searchParams struct {
	Query    string `query:"q" validate:"max=200"`
	Category string `query:"category" validate:"max=100"`
	Page     int    `query:"page" validate:"gte=0"`
}

type notificationsResponse struct {
	Notifications []core.Notification `json:"notifications"`
	Unread        int                 `json:"unread"`
}

type creditRequest struct {
	UserID string `json:"userId" validate:"required,max=128"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

type pointsResponse struct {
	UserID  string `json:"userId"`
	Balance int    `json:"balance"`
}

package application

import (
	"time"

	"github.com/bnema/poolify-cli/internal/domain"
)

type CreatePoolCommand struct {
	Creator          domain.Session
	Platform         domain.Platform
	Items            []string
	MaxUsers         int
	EstimatedSavings float64
	Duration         time.Duration
}

type LoginCommand struct {
	Email       string
	DisplayName string
	Hostel      string
}

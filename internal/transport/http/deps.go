package http

import (
	"github.com/skillswap-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/skillswap-api/internal/infrastructure/jwt"
	"github.com/skillswap-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	InterestRepo     *dynamo.InterestRepo
	NotificationRepo *dynamo.NotificationRepo
	Publisher        sns.Publisher // nil when push is not configured
	JWTProvider      *jwtinfra.Provider
}

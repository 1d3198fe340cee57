package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the authenticated *models.User.
	ContextKeyUser = "user"

	// MaxSearchResults caps user search responses.
	MaxSearchResults = 10

	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100

	MaxAIGeneratedTasks = 20
)

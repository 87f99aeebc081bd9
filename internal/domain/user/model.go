package user

// Principal is the authenticated identity behind a moderation request.
type Principal struct {
	UserID string
	Email  string
}

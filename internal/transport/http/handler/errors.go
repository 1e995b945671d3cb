package handler

const (
	errInternalServer     = "Internal server error"
	errUserAlreadyExists  = "User already exists"
	errInvalidCredentials = "Invalid credentials"
	errCityAlreadyTracked = "City already tracked"
	errCityNotFound       = "City not found"
)

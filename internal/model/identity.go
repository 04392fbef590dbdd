package model

// Identity is the already-verified caller of a request.
// It is resolved by the access proxy in front of the service and extracted by
// middleware; this service never verifies credentials itself.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Tenant      string `json:"tenant"`
}

package entity

// UserAuth is the operator an admin API token belongs to.
type UserAuth struct {
	Username string `json:"username"`
	Token    string `json:"-"`
}

package entity

import (
	"time"
)

const (
	ZoneTypeFull    = "full"
	ZoneTypePartial = "partial"
)

type Zone struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Status      string    `json:"status" bson:"status"`
	Type        string    `json:"type" bson:"type"`
	Paused      bool      `json:"paused" bson:"paused"`
	NameServers []string  `json:"name_servers" bson:"name_servers"`
	CreatedOn   time.Time `json:"created_on" bson:"created_on"`
}

// ZoneInput is the body of a zone registration request.
type ZoneInput struct {
	Name      string `json:"name" validate:"required,fqdn"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=full partial"`
	JumpStart bool   `json:"jump_start"`
	Account   struct {
		ID string `json:"id"`
	} `json:"account"`
}

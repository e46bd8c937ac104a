package ports

import (
	"context"
	"net/url"
)

type DestinationName string

const (
	DestinationLogin        DestinationName = "login"
	DestinationPoolCreation DestinationName = "pool-creation"
	DestinationPoolDetail   DestinationName = "pool-detail"
	DestinationHome         DestinationName = "home"
)

type Destination struct {
	Name  DestinationName
	Query url.Values
}

func (d Destination) String() string {
	if len(d.Query) == 0 {
		return string(d.Name)
	}
	return string(d.Name) + "?" + d.Query.Encode()
}

type Navigator interface {
	Navigate(ctx context.Context, dest Destination) error
}

// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is a transport endpoint (HTTP today) that serves until its
// context is canceled or the Fx lifecycle stops it.
type Delivery interface {
	Serve(ctx context.Context) error
}

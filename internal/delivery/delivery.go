// Package delivery defines the contract every transport entrypoint fulfills.
package delivery

import "context"

// Delivery is a server that accepts requests until its context ends. All
// deliveries are collected by fx and started together.
type Delivery interface {
	Serve(ctx context.Context) error
}

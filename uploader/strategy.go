package uploader

import "context"

// Strategy is one self-contained transport technique for moving bytes from a
// local file to a remote store. Strategies are tried in a fixed order and
// each attempt either produces a reference or an error; strategies never
// retry internally.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, src Source, key string) (Reference, error)
}

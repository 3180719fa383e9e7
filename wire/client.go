package wire

import (
	"context"
	"iter"
)

// Request describes one API call built by a generated request builder.
type Request struct {
	// Method is the HTTP method in upper case
	Method string
	// Path is the expanded request path, e.g. "/v1/customers/cus_123"
	Path string
	// Params points at the generated parameter struct
	Params any
	// Form is true when Params travel as a form-encoded body rather than
	// in the query string
	Form bool
	// StartingAfter is the pagination cursor set by Paginate
	StartingAfter string
}

// Client performs requests. Do decodes the response body into out.
// Transport, retries and form encoding belong to the implementation.
type Client interface {
	Do(ctx context.Context, req *Request, out any) error
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req *Request, out any) error

// Do calls f.
func (f ClientFunc) Do(ctx context.Context, req *Request, out any) error {
	return f(ctx, req, out)
}

// Send performs req and decodes a single T.
func Send[T any](ctx context.Context, c Client, req *Request) (*T, error) {
	out := new(T)
	if err := c.Do(ctx, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// List is one page of a list endpoint.
type List[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	URL     string `json:"url"`
}

// Paginate returns the items of every page of a list endpoint. Pages are
// fetched lazily; cursor extracts the id used as starting_after for the
// next page. A nil cursor stops after the first page. Iteration ends at
// the first error, which is yielded with the zero T.
func Paginate[T any](ctx context.Context, c Client, req *Request, cursor func(T) string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		next := *req
		for {
			var page List[T]
			if err := c.Do(ctx, &next, &page); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
			if !page.HasMore || len(page.Data) == 0 || cursor == nil {
				return
			}
			last := cursor(page.Data[len(page.Data)-1])
			if last == "" || last == next.StartingAfter {
				return
			}
			next.StartingAfter = last
		}
	}
}

// ByID is a Paginate cursor for items exposing GetID.
func ByID[ID ~string, T interface{ GetID() ID }](item T) string {
	return string(item.GetID())
}

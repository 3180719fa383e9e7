// Package wire is the runtime imported by code that stripegen emits.
//
// Import path: github.com/arlyon/async-stripe-sub040/wire
//
// # Decoding
//
// Generated records decode through a streaming [Builder]: [DecodeObject]
// reads one JSON object from a [jsontext.Decoder], hands each known key to
// the builder's [Visitor] and skips the rest. Every field is held in a
// [Slot] that remembers whether the key was seen, so [Builder.TakeOut]
// fails when a required key never arrived. [FromValue] drives the same
// builder from an already decoded value tree.
//
// # Enumerations and identifiers
//
// [ParseEnum] implements closed and open string enumerations. Closed ones
// reject unknown values with an [UnknownVariantError]; open ones keep the
// value and report it through the package [Logger]. [ParseID] checks the
// prefix of an id newtype.
//
// # Requests
//
// Generated request builders describe a call as a [Request] and hand it to
// a [Client]. [Send] decodes a single response and [Paginate] walks a list
// endpoint page by page.
package wire
